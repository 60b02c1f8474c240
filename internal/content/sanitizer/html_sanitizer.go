package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer removes dangerous HTML elements and attributes before
// text extraction. Conversion-service outputs are untrusted input.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer that allows common formatting
// while stripping scripts, event handlers and javascript: URLs.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &HTMLSanitizer{policy: policy}
}

// Sanitize removes dangerous HTML while preserving safe content.
func (s *HTMLSanitizer) Sanitize(html string) (string, error) {
	return s.policy.Sanitize(html), nil
}
