package handler

import (
	"net/http"

	"papershelf/internal/domain"
	"papershelf/internal/domain/models"
	"papershelf/internal/engines"
	"papershelf/internal/httputil"
	"papershelf/internal/service"
)

// ConvertHandler exposes format conversion and engine discovery.
type ConvertHandler struct {
	conversions *service.ConversionService
	registry    *engines.Registry
}

// NewConvertHandler creates a convert handler.
func NewConvertHandler(conversions *service.ConversionService, registry *engines.Registry) *ConvertHandler {
	return &ConvertHandler{conversions: conversions, registry: registry}
}

type convertRequest struct {
	Target string `json:"target"`
	Engine string `json:"engine"`
}

// Convert handles POST /api/documents/{id}/convert
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}
	if req.Target == "" {
		httputil.RespondError(w, &domain.ValidationError{Message: "target format is required"})
		return
	}

	doc, err := h.conversions.Convert(r.Context(), r.PathValue("id"), models.DocumentType(req.Target), req.Engine)
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListEngines handles GET /api/engines
func (h *ConvertHandler) ListEngines(w http.ResponseWriter, r *http.Request) {
	type engineInfo struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}

	var infos []engineInfo
	for _, id := range h.registry.List() {
		engine, err := h.registry.Get(id)
		if err != nil {
			continue
		}
		infos = append(infos, engineInfo{ID: engine.ID, Description: engine.Description})
	}
	httputil.RespondJSON(w, http.StatusOK, infos)
}
