package content

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Deriver extracts the plain-text content of one payload format. The
// derived text seeds a document's transcript/summary and is capped by
// the store on write.
type Deriver interface {
	// Derive extracts plain text from the raw payload.
	Derive(ctx context.Context, input []byte) (string, error)

	// SupportedExtensions returns the extensions this deriver handles.
	SupportedExtensions() []string

	// Name returns the deriver name for logging.
	Name() string
}

// Registry routes payloads to content derivers by file extension.
// Formats without a deriver get a byte-count placeholder description
// instead of an error: content derivation is best-effort by design.
//
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	derivers map[string]Deriver // key: file extension (e.g. ".pdf")
}

// NewRegistry creates a registry with the standard derivers pre-registered.
func NewRegistry() *Registry {
	registry := &Registry{
		derivers: make(map[string]Deriver),
	}

	registry.Register(NewTextDeriver())
	registry.Register(NewHTMLDeriver())
	registry.Register(NewPDFDeriver())

	return registry
}

// Register adds a deriver and associates it with its supported
// extensions. Extensions are normalized to lowercase with leading dot.
func (r *Registry) Register(deriver Deriver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range deriver.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.derivers[ext] = deriver
	}
}

// Get retrieves a deriver for the given file extension, or nil.
// Lookup is case-insensitive.
func (r *Registry) Get(fileExt string) Deriver {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !strings.HasPrefix(fileExt, ".") {
		fileExt = "." + fileExt
	}
	return r.derivers[strings.ToLower(fileExt)]
}

// Derive selects a deriver based on the filename extension and extracts
// plain text. Office formats returned by the conversion service are
// sometimes HTML under the hood, so an HTML-looking payload is routed to
// the HTML deriver regardless of extension. Anything else without a
// deriver yields the binary placeholder.
func (r *Registry) Derive(ctx context.Context, filename string, payload []byte) (string, error) {
	ext := filepath.Ext(filename)

	deriver := r.Get(ext)
	if deriver == nil && sniffsAsHTML(payload) {
		deriver = r.Get(".html")
	}
	if deriver == nil {
		return Placeholder(ext, payload), nil
	}

	text, err := deriver.Derive(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("derive content from %s: %w", filename, err)
	}
	return text, nil
}

// Placeholder describes a payload whose format cannot be introspected.
func Placeholder(ext string, payload []byte) string {
	ext = strings.ToUpper(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "binary"
	}
	return fmt.Sprintf("%s file (%d bytes)", ext, len(payload))
}

// sniffsAsHTML reports whether the payload starts with an HTML document.
func sniffsAsHTML(payload []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(payload[:min(len(payload), 256)])))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
