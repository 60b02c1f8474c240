package engines

import (
	"testing"
)

func TestNewRegistry_LoadsEmbeddedConfig(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	ids := registry.List()
	if len(ids) != 3 {
		t.Fatalf("expected 3 engines, got %v", ids)
	}
	if ids[0] != "auto" {
		t.Errorf("expected auto first, got %s", ids[0])
	}
}

func TestValidate(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	if err := registry.Validate("auto", "docx", "pdf"); err != nil {
		t.Errorf("auto docx->pdf should be valid: %v", err)
	}
	if err := registry.Validate("adobe", "pdf", "docx"); err != nil {
		t.Errorf("adobe pdf->docx should be valid: %v", err)
	}

	// Adobe only exports from PDF sources
	if err := registry.Validate("adobe", "docx", "pdf"); err == nil {
		t.Error("adobe docx->pdf should be rejected")
	}
	if err := registry.Validate("imagemagick", "pdf", "docx"); err == nil {
		t.Error("unknown engine should be rejected")
	}
}
