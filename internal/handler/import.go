package handler

import (
	"net/http"

	"papershelf/internal/httputil"
	"papershelf/internal/importer"
)

// ImportHandler accepts zip archives for bulk import.
type ImportHandler struct {
	zips *importer.ZipImporter
}

// NewImportHandler creates an import handler.
func NewImportHandler(zips *importer.ZipImporter) *ImportHandler {
	return &ImportHandler{zips: zips}
}

// ImportZip handles POST /api/imports/zip. The request body is the raw
// archive; an optional folder_id query parameter selects the target
// folder.
func (h *ImportHandler) ImportZip(w http.ResponseWriter, r *http.Request) {
	body, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	var baseFolder *string
	if id := r.URL.Query().Get("folder_id"); id != "" {
		baseFolder = &id
	}

	result, err := h.zips.Import(r.Context(), body, baseFolder)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}
