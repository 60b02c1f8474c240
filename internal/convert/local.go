package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/jung-kurt/gofpdf"
	"rsc.io/pdf"

	// Register decoders so image.DecodeConfig and image.Decode can
	// introspect every format the store accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"papershelf/internal/domain"
)

// Default render size for PDF page rasterization, in pixels.
const (
	DefaultRasterWidth  = 600
	DefaultRasterHeight = 800
)

// A4 page size in millimeters.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	pageMarginMM = 10.0
)

// PageRasterizer renders the pages of a PDF document to PNG images.
// Rasterization needs a rendering backend the process may not carry, so
// it is injected; a nil rasterizer makes pdf-to-image conversions fail
// cleanly instead of panicking.
type PageRasterizer interface {
	Rasterize(ctx context.Context, pdfData []byte, width, height int) ([][]byte, error)
}

// LocalConverter performs the in-process conversions: composing page
// images into a PDF and rasterizing a PDF back into page images.
type LocalConverter struct {
	rasterizer PageRasterizer
	logger     *slog.Logger
}

// NewLocalConverter creates a local converter. rasterizer may be nil.
func NewLocalConverter(rasterizer PageRasterizer, logger *slog.Logger) *LocalConverter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalConverter{rasterizer: rasterizer, logger: logger}
}

// ImagesToPDF composes one or more page images into a single A4 PDF,
// one image per page, aspect-fit and centered. Images gofpdf cannot
// embed directly are re-encoded to PNG first.
func (c *LocalConverter) ImagesToPDF(ctx context.Context, images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, &domain.ConversionFailedError{Message: "no page images to compose"}
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, format, err := normalizeImage(img)
		if err != nil {
			return nil, &domain.ConversionFailedError{
				Message: fmt.Sprintf("page %d: %s", i+1, err),
			}
		}

		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, &domain.ConversionFailedError{
				Message: fmt.Sprintf("page %d: unreadable image: %s", i+1, err),
			}
		}

		doc.AddPage()
		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: format, ReadDpi: false}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if doc.Err() {
			return nil, &domain.ConversionFailedError{
				Message: fmt.Sprintf("page %d: %s", i+1, doc.Error()),
			}
		}

		x, y, w, h := fitToPage(cfg.Width, cfg.Height)
		doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, &domain.ConversionFailedError{Message: err.Error()}
	}
	return buf.Bytes(), nil
}

// PDFToImages rasterizes every page of a PDF into PNG images at the
// default render size. An empty result set is a failure: a conversion
// must produce at least one page.
func (c *LocalConverter) PDFToImages(ctx context.Context, pdfData []byte) ([][]byte, error) {
	pages, err := countPages(pdfData)
	if err != nil {
		return nil, &domain.ConversionFailedError{Message: err.Error()}
	}
	if pages == 0 {
		return nil, &domain.ConversionFailedError{Message: "pdf has no pages"}
	}
	if c.rasterizer == nil {
		return nil, &domain.ConversionFailedError{Message: "no rasterizer configured"}
	}

	images, err := c.rasterizer.Rasterize(ctx, pdfData, DefaultRasterWidth, DefaultRasterHeight)
	if err != nil {
		return nil, &domain.ConversionFailedError{Message: err.Error()}
	}
	if len(images) == 0 {
		return nil, &domain.ConversionFailedError{Message: "rasterizer produced no pages"}
	}

	c.logger.Debug("rasterized pdf", "pages", len(images))
	return images, nil
}

// normalizeImage returns payload bytes gofpdf can embed plus the gofpdf
// image type tag. JPEG and PNG pass through untouched; everything else
// is decoded and re-encoded as PNG.
func normalizeImage(data []byte) ([]byte, string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unrecognized image format: %w", err)
	}

	switch format {
	case "jpeg":
		return data, "JPG", nil
	case "png":
		return data, "PNG", nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s image: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, "", fmt.Errorf("re-encode %s image: %w", format, err)
	}
	return buf.Bytes(), "PNG", nil
}

// fitToPage scales image dimensions to fit inside the A4 print area
// while preserving aspect ratio, and centers the result.
func fitToPage(pxWidth, pxHeight int) (x, y, w, h float64) {
	maxW := pageWidthMM - 2*pageMarginMM
	maxH := pageHeightMM - 2*pageMarginMM

	w = maxW
	h = w * float64(pxHeight) / float64(pxWidth)
	if h > maxH {
		h = maxH
		w = h * float64(pxWidth) / float64(pxHeight)
	}

	x = (pageWidthMM - w) / 2
	y = (pageHeightMM - h) / 2
	return x, y, w, h
}

// countPages parses the PDF just far enough to count pages. The parser
// panics on malformed input, so recover and turn that into an error.
func countPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pdf: %w", err)
	}
	return reader.NumPage(), nil
}
