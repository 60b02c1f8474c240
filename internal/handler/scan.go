package handler

import (
	"net/http"

	"papershelf/internal/domain/models"
	"papershelf/internal/httputil"
	"papershelf/internal/service"
)

// ScanHandler accepts OCR output and stores scanned documents.
type ScanHandler struct {
	scans *service.ScanService
}

// NewScanHandler creates a scan handler.
func NewScanHandler(scans *service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

type scanRequest struct {
	Pages    []models.OCRPage `json:"pages"`
	Images   [][]byte         `json:"images"`
	FolderID *string          `json:"folder_id"`
}

// Create handles POST /api/scans
func (h *ScanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, err)
		return
	}

	doc, err := h.scans.CreateFromScan(r.Context(), service.ScanRequest{
		Pages:    req.Pages,
		Images:   req.Images,
		FolderID: req.FolderID,
	})
	if err != nil {
		httputil.RespondError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, doc)
}
