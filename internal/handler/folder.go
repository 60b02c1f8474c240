package handler

import (
	"net/http"

	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/httputil"
	"papershelf/internal/service"
)

// FolderHandler exposes the folder hierarchy endpoints.
type FolderHandler struct {
	folders *service.FolderService
}

// NewFolderHandler creates a folder handler.
func NewFolderHandler(folders *service.FolderService) *FolderHandler {
	return &FolderHandler{folders: folders}
}

type createFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

// Create handles POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	folder, err := h.folders.Create(r.Context(), req.Name, req.ParentID)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListRoot handles GET /api/folders
func (h *FolderHandler) ListRoot(w http.ResponseWriter, r *http.Request) {
	contents, err := h.folders.Contents(nil)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents)
}

// Contents handles GET /api/folders/{id}
func (h *FolderHandler) Contents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	contents, err := h.folders.Contents(&id)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, contents)
}

// Rename handles PUT /api/folders/{id}/rename
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	folder, err := h.folders.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, folder)
}

type moveFolderRequest struct {
	ParentID *string `json:"parent_id"`
}

// Move handles PUT /api/folders/{id}/move
func (h *FolderHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	if err := h.folders.Move(r.Context(), r.PathValue("id"), req.ParentID); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/folders/{id}?mode=...
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	mode := models.FolderDeleteMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = models.MoveItemsToParent
	}
	if mode != models.DeleteAllItems && mode != models.MoveItemsToParent {
		httputil.RespondError(w, &domain.ValidationError{
			Message: "mode must be delete_all_items or move_items_to_parent",
		})
		return
	}

	if err := h.folders.Delete(r.Context(), r.PathValue("id"), mode); err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusNoContent, nil)
}
