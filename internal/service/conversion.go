package service

import (
	"context"
	"log/slog"

	"papershelf/internal/convert"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/engines"
	"papershelf/internal/store"
)

// ConversionService converts a stored document into another format and
// stores the result as a new document next to the source.
type ConversionService struct {
	store    *store.Store
	router   *convert.Router
	registry *engines.Registry
	logger   *slog.Logger
}

// NewConversionService creates a conversion service. registry may be
// nil to skip engine validation.
func NewConversionService(st *store.Store, router *convert.Router, registry *engines.Registry, logger *slog.Logger) *ConversionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversionService{store: st, router: router, registry: registry, logger: logger}
}

// Convert runs one conversion. The source document is snapshotted up
// front so the store is never locked across rendering or network time;
// the output lands in the source's folder with a back-reference to it.
func (s *ConversionService) Convert(ctx context.Context, documentID string, target models.DocumentType, engine string) (*models.Document, error) {
	src, err := s.store.GetDocument(documentID)
	if err != nil {
		return nil, err
	}

	if engine == "" {
		engine = engines.DefaultEngine
	}
	// Engines only matter for conversions the remote service performs;
	// local renders ignore them.
	source := src.Type
	if source == models.TypeScanned {
		source = models.TypeImage
	}
	if strategy, err := convert.Lookup(source, target); err == nil &&
		strategy == convert.StrategyRemote && s.registry != nil && engine != engines.DefaultEngine {
		if err := s.registry.Validate(engine, string(source), string(target)); err != nil {
			return nil, &domain.ValidationError{Message: err.Error()}
		}
	}

	out, err := s.router.Convert(ctx, src, target, engine)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateDocument(ctx, out)
	if err != nil {
		return nil, err
	}

	s.logger.Info("conversion stored",
		"source_id", src.ID,
		"id", created.ID,
		"target", target,
		"engine", engine)
	return created, nil
}
