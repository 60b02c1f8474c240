package ocr

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	maxCandidates       = 5
	maxCandidateWords   = 16
	maxFinalTitleWords  = 4
	fallbackPrefixWords = 8
	topProximityWindow  = 5
	topProximityPerLine = 0.35
)

// Metadata-looking lines are never plausible titles: URLs, contact
// addresses, identifiers and journal boilerplate.
var (
	urlPattern    = regexp.MustCompile(`(?i)https?://|www\.`)
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	idPattern     = regexp.MustCompile(`(?i)\b(doi|issn|isbn)\b`)
	marginPattern = regexp.MustCompile(`(?i)\b(page|pp?\.|vol\.?|no\.)\s*\d`)
)

var boilerplateWords = []string{
	"abstract", "keywords", "copyright", "journal", "proceedings",
	"university", "department", "conference", "volume", "issue",
	"received", "accepted", "revised", "published", "editor",
}

// TitleCandidates scores the first lines of raw OCR text and returns up
// to five normalized title candidates, best first. When nothing scores
// above zero it falls back to a normalized prefix of the raw text. The
// scoring is fully deterministic: the same text always yields the same
// candidate list.
func TitleCandidates(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	type scored struct {
		index int
		text  string
		score float64
	}

	var survivors []scored
	for idx, line := range lines {
		if isMetadataLine(line) {
			continue
		}
		score := scoreLine(idx, line)
		if score <= 0 {
			continue
		}
		survivors = append(survivors, scored{index: idx, text: line, score: score})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].score != survivors[j].score {
			return survivors[i].score > survivors[j].score
		}
		return survivors[i].index < survivors[j].index
	})
	if len(survivors) > maxCandidates {
		survivors = survivors[:maxCandidates]
	}

	var candidates []string
	for _, s := range survivors {
		if normalized := normalizeCandidate(s.text, maxCandidateWords); normalized != "" {
			candidates = append(candidates, normalized)
		}
	}

	if len(candidates) == 0 {
		if fallback := normalizeCandidate(raw, fallbackPrefixWords); fallback != "" {
			candidates = append(candidates, fallback)
		}
	}
	return candidates
}

// FinalizeTitle normalizes a chosen title, which may come from the
// naming assistant and is treated as untrusted input: it is stripped to
// at most four unique words, re-checked against the metadata filter
// (falling back to the first candidate), and title-cased.
func FinalizeTitle(choice string, candidates []string) string {
	title := uniqueWordPrefix(normalizeCandidate(choice, maxCandidateWords), maxFinalTitleWords)
	if title == "" || isMetadataLine(title) {
		if len(candidates) == 0 {
			return ""
		}
		title = uniqueWordPrefix(candidates[0], maxFinalTitleWords)
	}
	return titleCase(title)
}

func scoreLine(index int, line string) float64 {
	score := 0.0

	// Proximity to the top of the document
	if index < topProximityWindow {
		score += topProximityPerLine * float64(topProximityWindow-index)
	}

	words := strings.Fields(line)
	switch {
	case len(words) >= 4 && len(words) <= 16:
		score += 2.0
	case len(words) <= 2:
		score -= 1.5
	case len(words) > 20:
		score -= 1.0
	}

	letters, digits, total := 0, 0, 0
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total > 0 {
		letterRatio := float64(letters) / float64(total)
		digitRatio := float64(digits) / float64(total)

		if letterRatio >= 0.7 {
			score += 1.0
		} else if letterRatio < 0.4 {
			score -= 1.0
		}
		if digitRatio > 0.3 {
			score -= 1.5
		}
		if isTitleCased(words) {
			score += 0.8
		}
		if line == strings.ToUpper(line) && letterRatio > 0.5 {
			score += 0.5
		}
	}

	return score
}

func isMetadataLine(line string) bool {
	if urlPattern.MatchString(line) || emailPattern.MatchString(line) ||
		idPattern.MatchString(line) || marginPattern.MatchString(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, word := range boilerplateWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// isTitleCased reports whether every word that starts with a letter
// starts with an uppercase one.
func isTitleCased(words []string) bool {
	if len(words) == 0 {
		return false
	}
	seenLetter := false
	for _, word := range words {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		seenLetter = true
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return seenLetter
}

// normalizeCandidate strips leading bullets and quotes, collapses
// non-alphanumeric runs to single spaces, and caps the word count.
func normalizeCandidate(text string, maxWords int) string {
	text = strings.TrimLeft(text, "-–—•*·◦>\"'“”‘’ \t")

	var sb strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	words := strings.Fields(sb.String())
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ")
}

// uniqueWordPrefix keeps the first maxWords case-insensitively distinct
// words, in order.
func uniqueWordPrefix(text string, maxWords int) string {
	seen := make(map[string]struct{})
	var kept []string
	for _, word := range strings.Fields(text) {
		key := strings.ToLower(word)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, word)
		if len(kept) == maxWords {
			break
		}
	}
	return strings.Join(kept, " ")
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
