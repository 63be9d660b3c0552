package preview

import (
	"strings"
	"testing"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

func TestRegistry_AllocateAndRelease(t *testing.T) {
	r := NewRegistry()

	h1, err := r.Allocate(domain.FileCandidate{Name: "a.png", ContentType: "image/png"})
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	h2, _ := r.Allocate(domain.FileCandidate{Name: "b.png", ContentType: "image/png"})

	if h1 == h2 {
		t.Fatal("expected distinct handles")
	}
	if !strings.HasPrefix(h1, "preview-") {
		t.Errorf("unexpected handle format: %s", h1)
	}
	if r.Live() != 2 {
		t.Errorf("expected 2 live handles, got %d", r.Live())
	}

	entry, ok := r.Lookup(h1)
	if !ok || entry.Name != "a.png" {
		t.Errorf("Lookup(%s) = %+v, %v", h1, entry, ok)
	}

	r.Release(h1)
	r.Release(h1) // double release is harmless
	r.Release("preview-unknown")

	if r.Live() != 1 {
		t.Errorf("expected 1 live handle, got %d", r.Live())
	}
	if _, ok := r.Lookup(h1); ok {
		t.Error("released handle still resolvable")
	}
}
