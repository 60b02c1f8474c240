package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"papershelf/internal/content"
	"papershelf/internal/convert"
	"papershelf/internal/domain/models"
	"papershelf/internal/engines"
	"papershelf/internal/importer"
	"papershelf/internal/service"
	"papershelf/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	st := store.New(nil, logger)
	registry, err := engines.NewRegistry()
	if err != nil {
		t.Fatalf("engine registry: %v", err)
	}
	contentRegistry := content.NewRegistry()
	router := convert.NewRouter(
		convert.NewLocalConverter(nil, logger),
		convert.NewRemoteClient("http://unreachable.invalid", "auto", time.Second, logger),
		contentRegistry,
		logger,
	)

	documents := service.NewDocumentService(st, contentRegistry, nil, logger)
	folders := service.NewFolderService(st, logger)
	scans := service.NewScanService(st, nil, nil, logger)
	conversions := service.NewConversionService(st, router, registry, logger)
	zips := importer.NewZipImporter(st, documents, logger)

	mux := Routes(Handlers{
		Documents: NewDocumentHandler(documents),
		Folders:   NewFolderHandler(folders),
		Scans:     NewScanHandler(scans),
		Converts:  NewConvertHandler(conversions, registry),
		Imports:   NewImportHandler(zips),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAPI_DocumentLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/folders", map[string]any{"name": "Inbox"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create folder: got %d", resp.StatusCode)
	}
	folder := decode[models.Folder](t, resp)

	resp = doJSON(t, http.MethodPost, server.URL+"/api/documents", map[string]any{
		"filename":  "Report.txt",
		"data":      []byte("quarterly results"),
		"folder_id": folder.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("import document: got %d", resp.StatusCode)
	}
	doc := decode[models.Document](t, resp)
	if doc.Content != "quarterly results" {
		t.Errorf("expected derived content, got %q", doc.Content)
	}

	resp = doJSON(t, http.MethodPut, server.URL+"/api/documents/"+doc.ID+"/rename", map[string]any{"name": "Summary.pdf"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rename: got %d", resp.StatusCode)
	}
	renamed := decode[models.Document](t, resp)
	if renamed.Title != "Summary.txt" {
		t.Errorf("expected stored extension preserved, got %q", renamed.Title)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/folders/"+folder.ID, nil)
	contents := decode[service.FolderContents](t, resp)
	if len(contents.Documents) != 1 {
		t.Fatalf("expected one document in folder, got %d", len(contents.Documents))
	}

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/documents/"+doc.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/documents/"+doc.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestAPI_FolderCycleRejected(t *testing.T) {
	server := newTestServer(t)

	parent := decode[models.Folder](t, doJSON(t, http.MethodPost, server.URL+"/api/folders", map[string]any{"name": "A"}))
	child := decode[models.Folder](t, doJSON(t, http.MethodPost, server.URL+"/api/folders", map[string]any{
		"name":      "B",
		"parent_id": parent.ID,
	}))

	resp := doJSON(t, http.MethodPut, server.URL+"/api/folders/"+parent.ID+"/move", map[string]any{"parent_id": child.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for cycle move, got %d", resp.StatusCode)
	}
}

func TestAPI_UnsupportedConversion(t *testing.T) {
	server := newTestServer(t)

	doc := decode[models.Document](t, doJSON(t, http.MethodPost, server.URL+"/api/documents", map[string]any{
		"filename": "notes.txt",
		"data":     []byte("text"),
	}))

	resp := doJSON(t, http.MethodPost, server.URL+"/api/documents/"+doc.ID+"/convert", map[string]any{"target": "docx"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unsupported pair, got %d", resp.StatusCode)
	}
}

func TestAPI_DuplicateFolderNameConflicts(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/folders", map[string]any{"name": "Taxes"})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPost, server.URL+"/api/folders", map[string]any{"name": "Taxes"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate sibling name, got %d", resp.StatusCode)
	}
}

func TestAPI_ScanCreatesDocument(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/scans", map[string]any{
		"pages": []models.OCRPage{{
			PageIndex: 0,
			Blocks: []models.OCRBlock{
				{Text: "Meeting Notes From Today", Y: 0.95, X: 0.1},
				{Text: "Discussion of the open items.", Y: 0.80, X: 0.1},
			},
		}},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("scan: got %d", resp.StatusCode)
	}
	doc := decode[models.Document](t, resp)
	if doc.Type != models.TypeScanned {
		t.Errorf("expected scanned type, got %s", doc.Type)
	}
	if doc.Title == "" {
		t.Errorf("expected a title to be chosen")
	}
}

func TestAPI_ListEngines(t *testing.T) {
	server := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/engines", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("engines: got %d", resp.StatusCode)
	}
	engineList := decode[[]map[string]string](t, resp)
	if len(engineList) != 3 {
		t.Errorf("expected 3 engines, got %d", len(engineList))
	}
}
