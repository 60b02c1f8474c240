package convert

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"papershelf/internal/domain"
)

func TestRemoteConvert_ErrorBodySurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("bad file\n"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "auto", time.Second, discardLogger())
	_, err := client.Convert(context.Background(), "a.pdf", "pdf", "docx", "", []byte("payload"))

	var failure *domain.ServerFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected ServerFailureError, got %v", err)
	}
	if failure.Message != "bad file" {
		t.Errorf("expected trimmed service error text, got %q", failure.Message)
	}
	if failure.StatusCode() != http.StatusBadGateway {
		t.Errorf("expected 502 mapping, got %d", failure.StatusCode())
	}
}

func TestRemoteConvert_TimeoutMapsToNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "auto", 20*time.Millisecond, discardLogger())
	_, err := client.Convert(context.Background(), "a.pdf", "pdf", "docx", "", []byte("payload"))

	var failure *domain.ServerFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected ServerFailureError, got %v", err)
	}
	if failure.Message != domain.ErrNoResponse.Error() {
		t.Errorf("expected generic no-response message, got %q", failure.Message)
	}
}

func TestRemoteConvert_EmptyErrorBodyMapsToNoResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "auto", time.Second, discardLogger())
	_, err := client.Convert(context.Background(), "a.pdf", "pdf", "docx", "", []byte("payload"))

	var failure *domain.ServerFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected ServerFailureError, got %v", err)
	}
	if failure.Message != domain.ErrNoResponse.Error() {
		t.Errorf("expected generic no-response message, got %q", failure.Message)
	}
}

func TestRemoteConvert_DefaultEngineHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Conversion-Engine"); got != "libreoffice" {
			t.Errorf("expected default engine header, got %q", got)
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "libreoffice", time.Second, discardLogger())
	if _, err := client.Convert(context.Background(), "a.docx", "docx", "pdf", "", []byte("payload")); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
}
