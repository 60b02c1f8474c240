// Package httputil provides JSON request and response helpers shared by
// all handlers. Errors are rendered as RFC 7807 problem documents.
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"papershelf/internal/domain"
)

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// RespondJSON writes a JSON response with the given status. A nil
// payload writes only the status code.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// RespondError maps a domain error to a problem document. Errors that
// implement HTTPError choose their own status; everything else is a 500
// with the detail withheld.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := ""

	var httpErr domain.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.StatusCode()
		detail = httpErr.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		detail = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		detail = err.Error()
	case errors.Is(err, domain.ErrEmptyInput):
		status = http.StatusBadRequest
		detail = err.Error()
	default:
		slog.Error("unhandled error", "error", err)
	}

	problem := ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(problem); encodeErr != nil {
		slog.Error("failed to encode problem response", "error", encodeErr)
	}
}
