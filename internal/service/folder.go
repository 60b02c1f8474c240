package service

import (
	"context"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"papershelf/internal/config"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/store"
)

// FolderService wraps the store's folder hierarchy operations.
type FolderService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewFolderService creates a folder service.
func NewFolderService(st *store.Store, logger *slog.Logger) *FolderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FolderService{store: st, logger: logger}
}

// FolderContents is one level of the hierarchy: the folder itself (nil
// for root) plus its direct children in listing order.
type FolderContents struct {
	Folder    *models.Folder    `json:"folder,omitempty"`
	Folders   []models.Folder   `json:"folders"`
	Documents []models.Document `json:"documents"`
}

// Slashes would be ambiguous against zip import paths.
var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// Create makes a new folder under parentID (nil = root).
func (s *FolderService) Create(ctx context.Context, name string, parentID *string) (*models.Folder, error) {
	if err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.Match(folderNamePattern).Error("must not contain slashes"),
	); err != nil {
		return nil, &domain.ValidationError{Message: "name: " + err.Error()}
	}
	folder, err := s.store.CreateFolder(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("folder created", "id", folder.ID, "name", folder.Name)
	return folder, nil
}

// Get returns one folder.
func (s *FolderService) Get(id string) (*models.Folder, error) {
	return s.store.GetFolder(id)
}

// Contents lists one level of the hierarchy. A nil folderID lists root.
func (s *FolderService) Contents(folderID *string) (*FolderContents, error) {
	contents := &FolderContents{}
	if folderID != nil {
		folder, err := s.store.GetFolder(*folderID)
		if err != nil {
			return nil, err
		}
		contents.Folder = folder
	}
	contents.Folders = s.store.FoldersIn(folderID)
	contents.Documents = s.store.DocumentsIn(folderID)
	if contents.Folders == nil {
		contents.Folders = []models.Folder{}
	}
	if contents.Documents == nil {
		contents.Documents = []models.Document{}
	}
	return contents, nil
}

// Rename replaces the folder's name.
func (s *FolderService) Rename(ctx context.Context, id, name string) (*models.Folder, error) {
	return s.store.RenameFolder(ctx, id, name)
}

// Move reparents the folder, rejecting self and descendant targets.
func (s *FolderService) Move(ctx context.Context, id string, parentID *string) error {
	return s.store.MoveFolder(ctx, id, parentID)
}

// Delete removes the folder in the requested mode.
func (s *FolderService) Delete(ctx context.Context, id string, mode models.FolderDeleteMode) error {
	if err := s.store.DeleteFolder(ctx, id, mode); err != nil {
		return err
	}
	s.logger.Info("folder deleted", "id", id, "mode", mode)
	return nil
}
