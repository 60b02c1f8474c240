// Package handler contains the HTTP layer: one handler struct per
// resource plus the route table.
package handler

import (
	"net/http"

	"papershelf/internal/httputil"
)

// Handlers bundles every resource handler for route registration.
type Handlers struct {
	Documents *DocumentHandler
	Folders   *FolderHandler
	Scans     *ScanHandler
	Converts  *ConvertHandler
	Imports   *ImportHandler
}

// Routes builds the HTTP mux for the API.
func Routes(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/documents", h.Documents.Import)
	mux.HandleFunc("POST /api/documents/reorder", h.Documents.Reorder)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.Open)
	mux.HandleFunc("GET /api/documents/{id}/file", h.Documents.Download)
	mux.HandleFunc("PUT /api/documents/{id}/rename", h.Documents.Rename)
	mux.HandleFunc("PUT /api/documents/{id}/move", h.Documents.Move)
	mux.HandleFunc("PUT /api/documents/{id}/content", h.Documents.UpdateContent)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.Delete)
	mux.HandleFunc("POST /api/documents/{id}/convert", h.Converts.Convert)

	mux.HandleFunc("POST /api/folders", h.Folders.Create)
	mux.HandleFunc("GET /api/folders", h.Folders.ListRoot)
	mux.HandleFunc("GET /api/folders/{id}", h.Folders.Contents)
	mux.HandleFunc("PUT /api/folders/{id}/rename", h.Folders.Rename)
	mux.HandleFunc("PUT /api/folders/{id}/move", h.Folders.Move)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.Delete)

	mux.HandleFunc("POST /api/scans", h.Scans.Create)
	mux.HandleFunc("POST /api/imports/zip", h.Imports.ImportZip)
	mux.HandleFunc("GET /api/engines", h.Converts.ListEngines)

	return mux
}
