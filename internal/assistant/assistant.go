// Package assistant provides language-model backed helpers for naming
// and enriching documents, with deterministic fallbacks so the core
// flows keep working without a configured model endpoint.
package assistant

import "context"

// TitleSuggester picks the best display title for a scanned document
// from heuristic candidates and a text excerpt.
type TitleSuggester interface {
	SuggestTitle(ctx context.Context, excerpt string, candidates []string) (string, error)
}

// Enrichment is the derived metadata patched onto a document after
// creation.
type Enrichment struct {
	Category       string   `json:"category"`
	KeywordsResume string   `json:"keywords_resume"`
	Tags           []string `json:"tags"`
}

// MetadataEnricher derives category, keyword resume and tags from a
// document's title and text.
type MetadataEnricher interface {
	Enrich(ctx context.Context, title, excerpt string) (*Enrichment, error)
}
