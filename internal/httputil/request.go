package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"papershelf/internal/domain"
)

// maxJSONBodySize caps JSON request bodies. Scan payloads carry page
// images inline, so the cap is generous.
const maxJSONBodySize = 256 << 20

// ParseJSON decodes a JSON request body into dst, rejecting unknown
// fields and oversized bodies.
func ParseJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &domain.ValidationError{Message: "invalid request body: " + err.Error()}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return &domain.ValidationError{Message: "request body must contain a single JSON object"}
	}
	return nil
}

// ReadBody reads a raw request body with the size cap applied.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &domain.ValidationError{Message: "failed to read request body: " + err.Error()}
	}
	return body, nil
}
