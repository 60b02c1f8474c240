package handler

import (
	"net/http"

	"papershelf/internal/httputil"
	"papershelf/internal/service"
)

// DocumentHandler exposes document CRUD, naming and ordering endpoints.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type importDocumentRequest struct {
	Filename string  `json:"filename"`
	Data     []byte  `json:"data"`
	FolderID *string `json:"folder_id"`
}

// Import handles POST /api/documents
func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	doc, err := h.documents.Import(r.Context(), service.ImportRequest{
		Filename: req.Filename,
		Payload:  req.Data,
		FolderID: req.FolderID,
	})
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// Open handles GET /api/documents/{id}. Fetching through this endpoint
// counts as an access.
func (h *DocumentHandler) Open(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Open(r.Context(), r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Download handles GET /api/documents/{id}/file
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.Get(r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, err)
		return
	}

	payload := doc.RawPayload()
	if payload == nil {
		httputil.RespondJSON(w, http.StatusNoContent, nil)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename handles PUT /api/documents/{id}/rename
func (h *DocumentHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	doc, err := h.documents.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

type moveDocumentRequest struct {
	FolderID *string `json:"folder_id"`
}

// Move handles PUT /api/documents/{id}/move
func (h *DocumentHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	if err := h.documents.Move(r.Context(), r.PathValue("id"), req.FolderID); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}

type reorderRequest struct {
	FolderID  *string `json:"folder_id"`
	DraggedID string  `json:"dragged_id"`
	TargetID  string  `json:"target_id"`
}

// Reorder handles POST /api/documents/reorder
func (h *DocumentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	if err := h.documents.Reorder(r.Context(), req.FolderID, req.DraggedID, req.TargetID); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}

type updateContentRequest struct {
	Content string `json:"content"`
}

// UpdateContent handles PUT /api/documents/{id}/content
func (h *DocumentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	var req updateContentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	if err := h.documents.UpdateContent(r.Context(), r.PathValue("id"), req.Content); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), r.PathValue("id")); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}
