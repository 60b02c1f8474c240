package assistant

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// HeuristicAssistant is the zero-dependency fallback used when no model
// endpoint is configured. It is fully deterministic.
type HeuristicAssistant struct{}

// NewHeuristicAssistant creates the fallback assistant.
func NewHeuristicAssistant() *HeuristicAssistant {
	return &HeuristicAssistant{}
}

// SuggestTitle returns the top-ranked candidate unchanged.
func (h *HeuristicAssistant) SuggestTitle(ctx context.Context, excerpt string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	return candidates[0], nil
}

// Enrich derives tags from word frequency and a resume from the leading
// sentence of the excerpt.
func (h *HeuristicAssistant) Enrich(ctx context.Context, title, excerpt string) (*Enrichment, error) {
	return &Enrichment{
		Category:       "document",
		KeywordsResume: leadingSentence(excerpt),
		Tags:           frequentWords(excerpt, 5),
	}, nil
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "with": true,
	"this": true, "from": true, "are": true, "was": true, "have": true,
	"has": true, "not": true, "you": true, "your": true, "but": true,
	"all": true, "its": true, "were": true, "been": true, "will": true,
	"der": true, "die": true, "das": true, "und": true, "les": true,
}

func leadingSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if r == '.' || r == '\n' {
			return strings.TrimSpace(text[:i])
		}
		if i > 200 {
			return strings.TrimSpace(text[:i])
		}
	}
	return text
}

func frequentWords(text string, limit int) []string {
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if len(word) < 4 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}
