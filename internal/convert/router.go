package convert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"papershelf/internal/content"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
)

// Router resolves a conversion request against the policy table and
// dispatches it to the local converter or the remote service. The
// result is a detached document; the caller owns persisting it.
type Router struct {
	local   *LocalConverter
	remote  *RemoteClient
	content *content.Registry
	logger  *slog.Logger
}

// NewRouter creates a conversion router.
func NewRouter(local *LocalConverter, remote *RemoteClient, registry *content.Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{local: local, remote: remote, content: registry, logger: logger}
}

// Convert produces a new document in the target format from src.
// Unsupported pairs are rejected before any rendering or network work.
// The returned document carries the source's folder placement and a
// weak back-reference to the source; id and sort order are assigned by
// the store on create.
func (r *Router) Convert(ctx context.Context, src *models.Document, target models.DocumentType, engine string) (*models.Document, error) {
	source := src.Type
	if source == models.TypeScanned {
		// Scanned documents are stacks of page images underneath.
		source = models.TypeImage
	}

	strategy, err := Lookup(source, target)
	if err != nil {
		return nil, err
	}

	out := &models.Document{
		Title:            src.BaseName() + "." + targetExtension(target),
		Type:             target,
		FolderID:         src.FolderID,
		SourceDocumentID: &src.ID,
		DateCreated:      time.Now(),
		LastAccessed:     time.Now(),
	}

	switch strategy {
	case StrategyLocal:
		if err := r.convertLocal(ctx, src, target, out); err != nil {
			return nil, err
		}
	case StrategyRemote:
		if err := r.convertRemote(ctx, src, target, engine, out); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown conversion strategy: %s", strategy)
	}

	r.fillContent(ctx, src, out)
	return out, nil
}

func (r *Router) convertLocal(ctx context.Context, src *models.Document, target models.DocumentType, out *models.Document) error {
	switch target {
	case models.TypePDF:
		images := src.ImageData
		if len(images) == 0 {
			if payload := src.RawPayload(); len(payload) > 0 {
				images = [][]byte{payload}
			}
		}
		pdfData, err := r.local.ImagesToPDF(ctx, images)
		if err != nil {
			return err
		}
		out.PDFData = pdfData
		return nil

	case models.TypeImage:
		payload := src.PDFData
		if len(payload) == 0 {
			payload = src.RawPayload()
		}
		images, err := r.local.PDFToImages(ctx, payload)
		if err != nil {
			return err
		}
		out.ImageData = images
		return nil
	}
	return fmt.Errorf("unknown local conversion target: %s", target)
}

func (r *Router) convertRemote(ctx context.Context, src *models.Document, target models.DocumentType, engine string, out *models.Document) error {
	payload := src.RawPayload()
	if len(payload) == 0 {
		return &domain.ConversionFailedError{Message: "source document has no payload"}
	}

	sourceExt := src.Extension()
	if sourceExt == "" {
		sourceExt = string(src.Type)
	}

	converted, err := r.remote.Convert(ctx, src.Title, sourceExt, targetExtension(target), engine, payload)
	if err != nil {
		return err
	}

	if target == models.TypePDF {
		out.PDFData = converted
	} else {
		out.OriginalFileData = converted
	}
	return nil
}

// fillContent seeds the output document's plain text. A PDF-to-office
// conversion keeps the text the source already extracted; otherwise the
// content registry derives text from the converted payload. Derivation
// failures degrade to a placeholder rather than failing the conversion.
func (r *Router) fillContent(ctx context.Context, src, out *models.Document) {
	if src.Type == models.TypePDF && src.Content != "" {
		out.Content = src.Content
		if len(src.OCRPages) > 0 {
			out.OCRPages = src.OCRPages
		}
		return
	}
	if src.Type == models.TypeScanned || src.Type == models.TypeImage {
		if src.Content != "" {
			out.Content = src.Content
			out.OCRPages = src.OCRPages
			return
		}
	}

	payload := out.RawPayload()
	text, err := r.content.Derive(ctx, out.Title, payload)
	if err != nil {
		r.logger.Warn("content derivation failed after conversion",
			"title", out.Title,
			"error", err)
		text = content.Placeholder("."+targetExtension(out.Type), payload)
	}
	out.Content = text
}

// targetExtension maps a document type to its filename extension.
func targetExtension(t models.DocumentType) string {
	switch t {
	case models.TypeText:
		return "txt"
	case models.TypeImage:
		return "png"
	default:
		return string(t)
	}
}
