package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"papershelf/internal/assistant"
	"papershelf/internal/store"
)

// enrichTimeout bounds one background enrichment run.
const enrichTimeout = 60 * time.Second

// EnrichmentService derives category, keyword resume and tags for a
// document in the background. The document may be deleted before the
// run finishes; the patch then silently no-ops.
type EnrichmentService struct {
	store    *store.Store
	enricher assistant.MetadataEnricher
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewEnrichmentService creates an enrichment service.
func NewEnrichmentService(st *store.Store, enricher assistant.MetadataEnricher, logger *slog.Logger) *EnrichmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichmentService{store: st, enricher: enricher, logger: logger}
}

// EnrichAsync schedules enrichment for a document and returns
// immediately.
func (s *EnrichmentService) EnrichAsync(docID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
		defer cancel()
		if err := s.Enrich(ctx, docID); err != nil {
			s.logger.Warn("background enrichment failed", "id", docID, "error", err)
		}
	}()
}

// Enrich runs one enrichment synchronously.
func (s *EnrichmentService) Enrich(ctx context.Context, docID string) error {
	doc, err := s.store.GetDocument(docID)
	if err != nil {
		// Deleted in the meantime; nothing to do.
		return nil
	}

	enrichment, err := s.enricher.Enrich(ctx, doc.Title, doc.Content)
	if err != nil {
		return err
	}
	return s.store.ApplyEnrichment(ctx, docID, enrichment.Category, enrichment.KeywordsResume, enrichment.Tags)
}

// Wait blocks until all scheduled enrichments finish. Used by shutdown
// and tests.
func (s *EnrichmentService) Wait() {
	s.wg.Wait()
}
