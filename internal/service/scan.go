package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"papershelf/internal/assistant"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/ocr"
	"papershelf/internal/store"
)

// fallbackScanTitle names a scan whose text yields no usable title.
const fallbackScanTitle = "Scanned Document"

// ScanService turns raw OCR output into a stored scanned document:
// structured text, a chosen title and the page images.
type ScanService struct {
	store      *store.Store
	suggester  assistant.TitleSuggester
	enrichment *EnrichmentService
	logger     *slog.Logger
}

// NewScanService creates a scan service. suggester may be nil; title
// selection then uses the top heuristic candidate. enrichment may be
// nil to disable background metadata derivation.
func NewScanService(st *store.Store, suggester assistant.TitleSuggester, enrichment *EnrichmentService, logger *slog.Logger) *ScanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanService{store: st, suggester: suggester, enrichment: enrichment, logger: logger}
}

// ScanRequest carries the OCR output of one scan session.
type ScanRequest struct {
	Pages    []models.OCRPage
	Images   [][]byte
	FolderID *string
}

// Validate implements request validation for scans.
func (r ScanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Pages, validation.Required),
	)
}

// CreateFromScan structures the OCR fragments, picks a title and stores
// the resulting document. Title selection consults the assistant when
// one is configured; a failing or absent assistant falls back to the
// top heuristic candidate, so scanning works offline.
func (s *ScanService) CreateFromScan(ctx context.Context, req ScanRequest) (*models.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if req.FolderID != nil {
		if _, err := s.store.GetFolder(*req.FolderID); err != nil {
			return nil, err
		}
	}

	text := ocr.StructurePages(req.Pages, len(req.Pages) > 1)
	candidates := ocr.TitleCandidates(text)

	choice := ""
	if s.suggester != nil {
		suggested, err := s.suggester.SuggestTitle(ctx, text, candidates)
		if err != nil {
			s.logger.Warn("title suggestion failed, using heuristic candidate", "error", err)
		} else {
			choice = suggested
		}
	}
	if choice == "" && len(candidates) > 0 {
		choice = candidates[0]
	}

	title := ocr.FinalizeTitle(choice, candidates)
	if title == "" {
		title = fallbackScanTitle
	}

	doc := &models.Document{
		Title:     title,
		Content:   text,
		Type:      models.TypeScanned,
		OCRPages:  req.Pages,
		ImageData: req.Images,
		FolderID:  req.FolderID,
	}
	created, err := s.store.CreateDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scan stored",
		"id", created.ID,
		"title", created.Title,
		"pages", len(req.Pages))
	if s.enrichment != nil {
		s.enrichment.EnrichAsync(created.ID)
	}
	return created, nil
}
