package content

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"rsc.io/pdf"
)

// pdfDeriver extracts embedded text from PDF payloads. Image-only PDFs
// (typical scanner output) yield little or no text; OCR content for
// those comes from the scan pipeline, not from here.
type pdfDeriver struct{}

// NewPDFDeriver creates a new PDF text deriver.
func NewPDFDeriver() Deriver {
	return &pdfDeriver{}
}

// Derive reads the PDF content streams and concatenates their text runs
// page by page.
func (d *pdfDeriver) Derive(ctx context.Context, input []byte) (text string, err error) {
	// rsc.io/pdf panics on malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(input), int64(len(input)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		var sb strings.Builder
		lastY := -1.0
		for _, run := range page.Content().Text {
			if lastY >= 0 && run.Y != lastY {
				sb.WriteString("\n")
			} else if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteString(" ")
			}
			sb.WriteString(run.S)
			lastY = run.Y
		}
		if sb.Len() > 0 {
			pages = append(pages, sb.String())
		}
	}

	return strings.Join(pages, "\n\n"), nil
}

// SupportedExtensions returns PDF file extensions.
func (d *pdfDeriver) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Name returns the deriver name for logging.
func (d *pdfDeriver) Name() string {
	return "pdf"
}
