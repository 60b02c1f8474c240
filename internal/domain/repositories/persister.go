package repositories

import (
	"context"

	"papershelf/internal/domain/models"
)

// Persister makes store mutations durably observable. The store invokes
// it after each successful in-memory mutation (save-on-mutation contract);
// persister failures are logged by the caller and never roll back the
// in-memory state.
type Persister interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	SaveFolder(ctx context.Context, folder *models.Folder) error
	DeleteDocuments(ctx context.Context, ids []string) error
	DeleteFolders(ctx context.Context, ids []string) error

	// Load returns the full persisted snapshot, used once at boot.
	Load(ctx context.Context) ([]models.Document, []models.Folder, error)
}
