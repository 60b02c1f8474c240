package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"papershelf/internal/config"
	"papershelf/internal/content"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/store"
)

// DocumentService wraps the store with import, open and mutation flows.
type DocumentService struct {
	store      *store.Store
	content    *content.Registry
	enrichment *EnrichmentService
	logger     *slog.Logger
}

// NewDocumentService creates a document service. enrichment may be nil
// to disable background metadata derivation.
func NewDocumentService(st *store.Store, registry *content.Registry, enrichment *EnrichmentService, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{store: st, content: registry, enrichment: enrichment, logger: logger}
}

// ImportRequest carries one uploaded file.
type ImportRequest struct {
	Filename string
	Payload  []byte
	FolderID *string
}

// Validate implements request validation for imports.
func (r ImportRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Filename, validation.Required, validation.Length(1, config.MaxDocumentTitleLength)),
		validation.Field(&r.Payload, validation.Required),
	)
}

// Import creates a document from an uploaded file. The document type is
// inferred from the filename extension at creation time, the plain-text
// content is derived best-effort, and enrichment runs in the background.
func (s *DocumentService) Import(ctx context.Context, req ImportRequest) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if req.FolderID != nil {
		if _, err := s.store.GetFolder(*req.FolderID); err != nil {
			return nil, err
		}
	}

	_, ext := models.SplitTitle(req.Filename)
	docType := models.TypeForExtension(ext)

	text, err := s.content.Derive(ctx, req.Filename, req.Payload)
	if err != nil {
		s.logger.Warn("content derivation failed on import",
			"filename", req.Filename,
			"error", err)
		text = content.Placeholder("."+ext, req.Payload)
	}

	doc := &models.Document{
		Title:    req.Filename,
		Content:  text,
		Type:     docType,
		FolderID: req.FolderID,
	}
	switch docType {
	case models.TypePDF:
		doc.PDFData = req.Payload
	case models.TypeImage:
		doc.ImageData = [][]byte{req.Payload}
	default:
		doc.OriginalFileData = req.Payload
	}

	created, err := s.store.CreateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document imported",
		"id", created.ID,
		"title", created.Title,
		"type", created.Type,
		"bytes", len(req.Payload))
	s.enrichAsync(created.ID)
	return created, nil
}

// Get returns a document without touching access time.
func (s *DocumentService) Get(id string) (*models.Document, error) {
	return s.store.GetDocument(id)
}

// Open returns a document and records the access. Opening never changes
// creation time.
func (s *DocumentService) Open(ctx context.Context, id string) (*models.Document, error) {
	if err := s.store.TouchDocument(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetDocument(id)
}

// Rename replaces the document's base name, keeping the stored extension.
func (s *DocumentService) Rename(ctx context.Context, id, name string) (*models.Document, error) {
	return s.store.RenameDocument(ctx, id, name)
}

// Move reassigns the document's folder (nil = root).
func (s *DocumentService) Move(ctx context.Context, id string, folderID *string) error {
	return s.store.MoveDocument(ctx, id, folderID)
}

// Reorder drags a document in front of another within one container.
func (s *DocumentService) Reorder(ctx context.Context, folderID *string, draggedID, targetID string) error {
	return s.store.ReorderDocuments(ctx, folderID, draggedID, targetID)
}

// Delete removes a document permanently.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteDocument(ctx, id)
}

// UpdateContent replaces the document's plain text.
func (s *DocumentService) UpdateContent(ctx context.Context, id, text string) error {
	return s.store.UpdateDocumentContent(ctx, id, text)
}

func (s *DocumentService) enrichAsync(docID string) {
	if s.enrichment == nil {
		return
	}
	s.enrichment.EnrichAsync(docID)
}
