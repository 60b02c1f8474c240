package ocr

import (
	"strings"
	"testing"

	"papershelf/internal/domain/models"
)

func block(text string, x, y float64) models.OCRBlock {
	return models.OCRBlock{Text: text, Confidence: 0.9, X: x, Y: y, Width: 0.1, Height: 0.02}
}

func TestStructurePage_ParagraphSegmentation(t *testing.T) {
	// Two fragments on the same visual line (delta 0.02) followed by one
	// across a paragraph gap (delta 0.08).
	blocks := []models.OCRBlock{
		{Text: "Quarterly", X: 0.1, Y: 0.90},
		{Text: "Report", X: 0.4, Y: 0.88},
		{Text: "Revenue grew strongly.", X: 0.1, Y: 0.80},
	}

	got := StructurePage(blocks)
	want := "Quarterly Report\n\nRevenue grew strongly."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStructurePage_ReadingOrder(t *testing.T) {
	// Emission order is scrambled; reading order is top-down, and within
	// a line left-to-right.
	blocks := []models.OCRBlock{
		block("bottom", 0.1, 0.20),
		block("right", 0.6, 0.90),
		block("left", 0.1, 0.90),
		block("middle", 0.1, 0.55),
	}

	got := StructurePage(blocks)
	want := "left right\n\nmiddle\n\nbottom"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStructurePage_LineSpacingKeepsParagraph(t *testing.T) {
	// A 0.03 gap is a new line but not a new paragraph.
	blocks := []models.OCRBlock{
		block("first line", 0.1, 0.90),
		block("second line", 0.1, 0.87),
	}

	got := StructurePage(blocks)
	want := "first line\nsecond line"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStructurePage_SkipsBlankFragments(t *testing.T) {
	blocks := []models.OCRBlock{
		block("  ", 0.1, 0.9),
		block("only", 0.1, 0.5),
	}
	if got := StructurePage(blocks); got != "only" {
		t.Errorf("expected %q, got %q", "only", got)
	}

	if got := StructurePage(nil); got != "" {
		t.Errorf("expected empty output for no fragments, got %q", got)
	}
}

func TestStructurePages_PageOrder(t *testing.T) {
	// Pages arrive out of order; output must be in page order.
	pages := []models.OCRPage{
		{PageIndex: 1, Blocks: []models.OCRBlock{block("second page", 0.1, 0.9)}},
		{PageIndex: 0, Blocks: []models.OCRBlock{block("first page", 0.1, 0.9)}},
	}

	got := StructurePages(pages, false)
	want := "first page\n\nsecond page"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStructurePages_Labels(t *testing.T) {
	pages := []models.OCRPage{
		{PageIndex: 0, Blocks: []models.OCRBlock{block("hello", 0.1, 0.9)}},
		{PageIndex: 1, Blocks: []models.OCRBlock{block("world", 0.1, 0.9)}},
	}

	got := StructurePages(pages, true)
	want := "Page 1\nhello\n\nPage 2\nworld"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestStructurePages_Deterministic(t *testing.T) {
	// Parallel per-page structuring must not introduce nondeterminism.
	var pages []models.OCRPage
	for p := 0; p < 8; p++ {
		pages = append(pages, models.OCRPage{
			PageIndex: p,
			Blocks: []models.OCRBlock{
				block("alpha", 0.1, 0.9),
				block("beta", 0.5, 0.9),
				block("gamma", 0.1, 0.5),
			},
		})
	}

	first := StructurePages(pages, true)
	for i := 0; i < 10; i++ {
		if got := StructurePages(pages, true); got != first {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestStructurePages_Truncates(t *testing.T) {
	long := strings.Repeat("w ", 40000) // 80k chars once joined
	pages := []models.OCRPage{
		{PageIndex: 0, Blocks: []models.OCRBlock{block(strings.TrimSpace(long), 0.1, 0.9)}},
	}

	got := StructurePages(pages, false)
	if len(got) > 50000 {
		t.Errorf("expected output capped at 50000 chars, got %d", len(got))
	}
}
