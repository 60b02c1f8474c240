package content

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"papershelf/internal/content/sanitizer"
)

// htmlDeriver extracts readable text from HTML payloads (uploaded HTML
// files and the docx-as-HTML outputs some conversion engines produce).
// Two-stage process:
// 1. Sanitize HTML to remove dangerous elements
// 2. Convert sanitized HTML to markdown-flavored plain text
type htmlDeriver struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLDeriver creates a new HTML deriver. Input is sanitized before
// conversion since payloads may come from an untrusted service.
func NewHTMLDeriver() Deriver {
	return &htmlDeriver{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

// Derive sanitizes then converts the HTML to text.
func (d *htmlDeriver) Derive(ctx context.Context, input []byte) (string, error) {
	sanitized, err := d.sanitizer.Sanitize(string(input))
	if err != nil {
		return "", fmt.Errorf("failed to sanitize HTML: %w", err)
	}

	text, err := d.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}

	return text, nil
}

// SupportedExtensions returns HTML file extensions.
func (d *htmlDeriver) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

// Name returns the deriver name for logging.
func (d *htmlDeriver) Name() string {
	return "html"
}
