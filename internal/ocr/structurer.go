package ocr

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"papershelf/internal/config"
	"papershelf/internal/domain/models"
)

// Reading-order thresholds, in normalized page-fraction units. These are
// empirically tuned against scanned pages at the tested resolution; do
// not read stronger semantics into the exact values.
const (
	// lineMergeThreshold is the maximum vertical delta between fragments
	// that still counts as the same visual line.
	lineMergeThreshold = 0.02

	// paragraphBreakThreshold is the vertical gap between lines beyond
	// which a paragraph break is inserted.
	paragraphBreakThreshold = 0.04
)

// thresholdSlack absorbs float noise so a gap of exactly 0.02 still
// merges (0.90 - 0.88 does not compute to 0.02 exactly in binary).
const thresholdSlack = 1e-9

// StructurePages assembles per-page OCR fragments into readable text.
// Pages are structured independently (in parallel, they share nothing)
// and reassembled in page order, which is a correctness requirement.
// Pages are joined with a blank line; withLabels prefixes each page
// with a human label. Output is capped at the document content limit.
func StructurePages(pages []models.OCRPage, withLabels bool) string {
	ordered := append([]models.OCRPage(nil), pages...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageIndex < ordered[j].PageIndex
	})

	results := make([]string, len(ordered))
	var wg sync.WaitGroup
	for i := range ordered {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = StructurePage(ordered[i].Blocks)
		}(i)
	}
	wg.Wait()

	var parts []string
	for i, text := range results {
		if text == "" {
			continue
		}
		if withLabels {
			text = fmt.Sprintf("Page %d\n%s", ordered[i].PageIndex+1, text)
		}
		parts = append(parts, text)
	}

	joined := strings.Join(parts, "\n\n")
	return truncate(joined, config.MaxDocumentContentLength)
}

// StructurePage turns one page's unordered fragments into lines and
// paragraphs approximating top-to-bottom, left-to-right reading order.
// In this coordinate system larger normalized y is the top of the page.
func StructurePage(blocks []models.OCRBlock) string {
	fragments := make([]models.OCRBlock, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) != "" {
			fragments = append(fragments, b)
		}
	}
	if len(fragments) == 0 {
		return ""
	}

	// Vertical position descending; near-equal rows left to right.
	sort.SliceStable(fragments, func(i, j int) bool {
		if sameLine(fragments[i].Y, fragments[j].Y) {
			return fragments[i].X < fragments[j].X
		}
		return fragments[i].Y > fragments[j].Y
	})

	type line struct {
		y    float64
		text string
	}

	var lines []line
	for _, frag := range fragments {
		text := strings.TrimSpace(frag.Text)
		if len(lines) > 0 && sameLine(lines[len(lines)-1].y, frag.Y) {
			lines[len(lines)-1].text += " " + text
			continue
		}
		lines = append(lines, line{y: frag.Y, text: text})
	}

	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			gap := math.Abs(lines[i-1].y - l.y)
			if gap > paragraphBreakThreshold {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

func sameLine(y1, y2 float64) bool {
	return math.Abs(y1-y2) <= lineMergeThreshold+thresholdSlack
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
