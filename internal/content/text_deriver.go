package content

import (
	"context"
)

// textDeriver passes plain-text payloads through unchanged.
type textDeriver struct{}

// NewTextDeriver creates a new plain-text deriver.
func NewTextDeriver() Deriver {
	return &textDeriver{}
}

// Derive returns the decoded input as-is.
func (d *textDeriver) Derive(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

// SupportedExtensions returns text file extensions.
func (d *textDeriver) SupportedExtensions() []string {
	return []string{".txt", ".text", ".md"}
}

// Name returns the deriver name for logging.
func (d *textDeriver) Name() string {
	return "plaintext"
}
