package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"testing"
	"time"

	"papershelf/internal/assistant"
	"papershelf/internal/content"
	"papershelf/internal/convert"
	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/engines"
	"papershelf/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore() *store.Store {
	return store.New(nil, discardLogger())
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

type fakeSuggester struct {
	reply string
	err   error
	calls int
}

func (f *fakeSuggester) SuggestTitle(ctx context.Context, excerpt string, candidates []string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestImport_InfersTypeAndDerivesContent(t *testing.T) {
	st := newTestStore()
	docs := NewDocumentService(st, content.NewRegistry(), nil, discardLogger())

	doc, err := docs.Import(context.Background(), ImportRequest{
		Filename: "notes.txt",
		Payload:  []byte("hello world"),
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if doc.Type != models.TypeText {
		t.Errorf("expected text type, got %s", doc.Type)
	}
	if doc.Content != "hello world" {
		t.Errorf("expected derived content, got %q", doc.Content)
	}

	img, err := docs.Import(context.Background(), ImportRequest{
		Filename: "photo.png",
		Payload:  testPNG(t),
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if img.Type != models.TypeImage {
		t.Errorf("expected image type, got %s", img.Type)
	}
	if len(img.ImageData) != 1 {
		t.Errorf("expected image payload stored, got %d entries", len(img.ImageData))
	}
}

func TestImport_RejectsEmptyRequest(t *testing.T) {
	st := newTestStore()
	docs := NewDocumentService(st, content.NewRegistry(), nil, discardLogger())

	_, err := docs.Import(context.Background(), ImportRequest{Filename: "", Payload: []byte("x")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = docs.Import(context.Background(), ImportRequest{Filename: "a.txt"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for empty payload, got %v", err)
	}
}

func TestImport_UnknownFolderFails(t *testing.T) {
	st := newTestStore()
	docs := NewDocumentService(st, content.NewRegistry(), nil, discardLogger())

	missing := "no-such-folder"
	_, err := docs.Import(context.Background(), ImportRequest{
		Filename: "a.txt",
		Payload:  []byte("x"),
		FolderID: &missing,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImport_BackgroundEnrichment(t *testing.T) {
	st := newTestStore()
	enrichment := NewEnrichmentService(st, assistant.NewHeuristicAssistant(), discardLogger())
	docs := NewDocumentService(st, content.NewRegistry(), enrichment, discardLogger())

	doc, err := docs.Import(context.Background(), ImportRequest{
		Filename: "invoice.txt",
		Payload:  []byte("Invoice invoice payment total due."),
	})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	enrichment.Wait()

	enriched, err := docs.Get(doc.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if enriched.Category != "document" {
		t.Errorf("expected enrichment applied, got category %q", enriched.Category)
	}
	if len(enriched.Tags) == 0 {
		t.Errorf("expected tags from enrichment")
	}
}

func TestCreateFromScan_UsesSuggestedTitle(t *testing.T) {
	st := newTestStore()
	suggester := &fakeSuggester{reply: "Annual Budget Review Meeting"}
	scans := NewScanService(st, suggester, nil, discardLogger())

	doc, err := scans.CreateFromScan(context.Background(), ScanRequest{
		Pages: []models.OCRPage{{
			PageIndex: 0,
			Blocks: []models.OCRBlock{
				{Text: "Annual Budget Review Meeting 2024 Plan", Y: 0.95, X: 0.1},
				{Text: "Attendees discussed the revised numbers.", Y: 0.80, X: 0.1},
			},
		}},
		Images: [][]byte{testPNG(t)},
	})
	if err != nil {
		t.Fatalf("CreateFromScan failed: %v", err)
	}
	if suggester.calls != 1 {
		t.Errorf("expected one suggester call, got %d", suggester.calls)
	}
	if doc.Title != "Annual Budget Review Meeting" {
		t.Errorf("expected suggested title, got %q", doc.Title)
	}
	if doc.Type != models.TypeScanned {
		t.Errorf("expected scanned type, got %s", doc.Type)
	}
	if len(doc.OCRPages) != 1 || len(doc.ImageData) != 1 {
		t.Errorf("expected ocr pages and images preserved")
	}
}

func TestCreateFromScan_FallsBackWhenSuggesterFails(t *testing.T) {
	st := newTestStore()
	suggester := &fakeSuggester{err: errors.New("model unavailable")}
	scans := NewScanService(st, suggester, nil, discardLogger())

	doc, err := scans.CreateFromScan(context.Background(), ScanRequest{
		Pages: []models.OCRPage{{
			PageIndex: 0,
			Blocks: []models.OCRBlock{
				{Text: "Annual Budget Review Meeting 2024 Plan", Y: 0.95, X: 0.1},
			},
		}},
	})
	if err != nil {
		t.Fatalf("CreateFromScan failed: %v", err)
	}
	if doc.Title != "Annual Budget Review Meeting" {
		t.Errorf("expected heuristic fallback title, got %q", doc.Title)
	}
}

func TestCreateFromScan_EmptyTextGetsDefaultTitle(t *testing.T) {
	st := newTestStore()
	scans := NewScanService(st, nil, nil, discardLogger())

	doc, err := scans.CreateFromScan(context.Background(), ScanRequest{
		Pages: []models.OCRPage{{PageIndex: 0, Blocks: []models.OCRBlock{{Text: "   "}}}},
	})
	if err != nil {
		t.Fatalf("CreateFromScan failed: %v", err)
	}
	if doc.Title != "Scanned Document" {
		t.Errorf("expected default title, got %q", doc.Title)
	}
}

func newTestConversionService(t *testing.T, st *store.Store) *ConversionService {
	t.Helper()
	registry, err := engines.NewRegistry()
	if err != nil {
		t.Fatalf("engine registry: %v", err)
	}
	router := convert.NewRouter(
		convert.NewLocalConverter(nil, discardLogger()),
		convert.NewRemoteClient("http://unreachable.invalid", "auto", time.Second, discardLogger()),
		content.NewRegistry(),
		discardLogger(),
	)
	return NewConversionService(st, router, registry, discardLogger())
}

func TestConvert_UnsupportedPair(t *testing.T) {
	st := newTestStore()
	conversions := newTestConversionService(t, st)

	doc, err := st.CreateDocument(context.Background(), &models.Document{
		Title:   "notes.txt",
		Type:    models.TypeText,
		Content: "plain text",
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	_, err = conversions.Convert(context.Background(), doc.ID, models.TypeDocx, "")
	if !errors.Is(err, domain.ErrUnsupportedConversion) {
		t.Fatalf("expected unsupported conversion, got %v", err)
	}
}

func TestConvert_InvalidEngineRejected(t *testing.T) {
	st := newTestStore()
	conversions := newTestConversionService(t, st)

	doc, err := st.CreateDocument(context.Background(), &models.Document{
		Title:            "slides.docx",
		Type:             models.TypeDocx,
		OriginalFileData: []byte("docx bytes"),
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	// Adobe handles PDF sources only
	_, err = conversions.Convert(context.Background(), doc.ID, models.TypePDF, "adobe")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConvert_ImageToPDFStoresResult(t *testing.T) {
	st := newTestStore()
	conversions := newTestConversionService(t, st)

	folder, err := st.CreateFolder(context.Background(), "Scans", nil)
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	src, err := st.CreateDocument(context.Background(), &models.Document{
		Title:     "receipt.png",
		Type:      models.TypeImage,
		ImageData: [][]byte{testPNG(t)},
		FolderID:  &folder.ID,
	})
	if err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	out, err := conversions.Convert(context.Background(), src.ID, models.TypePDF, "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !bytes.HasPrefix(out.PDFData, []byte("%PDF")) {
		t.Errorf("expected pdf payload")
	}
	if out.Title != "receipt.pdf" {
		t.Errorf("expected title receipt.pdf, got %q", out.Title)
	}
	if out.FolderID == nil || *out.FolderID != folder.ID {
		t.Errorf("expected output next to source")
	}
	if out.SourceDocumentID == nil || *out.SourceDocumentID != src.ID {
		t.Errorf("expected back-reference to source")
	}

	stored, err := st.GetDocument(out.ID)
	if err != nil {
		t.Fatalf("converted document not stored: %v", err)
	}
	if stored.Type != models.TypePDF {
		t.Errorf("expected stored pdf type, got %s", stored.Type)
	}
}

func TestFolderContents_ListsOneLevel(t *testing.T) {
	st := newTestStore()
	folders := NewFolderService(st, discardLogger())

	root, err := folders.Create(context.Background(), "Taxes", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := folders.Create(context.Background(), "2025", &root.ID); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := st.CreateDocument(context.Background(), &models.Document{
		Title:    "return.pdf",
		Type:     models.TypePDF,
		FolderID: &root.ID,
	}); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	contents, err := folders.Contents(&root.ID)
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if contents.Folder == nil || contents.Folder.ID != root.ID {
		t.Errorf("expected folder header")
	}
	if len(contents.Folders) != 1 || contents.Folders[0].Name != "2025" {
		t.Errorf("expected one child folder, got %v", contents.Folders)
	}
	if len(contents.Documents) != 1 || contents.Documents[0].Title != "return.pdf" {
		t.Errorf("expected one document, got %v", contents.Documents)
	}

	rootContents, err := folders.Contents(nil)
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if rootContents.Folder != nil {
		t.Errorf("root listing has no folder header")
	}
	if len(rootContents.Folders) != 1 {
		t.Errorf("expected one root folder, got %d", len(rootContents.Folders))
	}
}
