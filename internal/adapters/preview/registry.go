package preview

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

// Entry describes the selection a preview handle points at
type Entry struct {
	Handle      string
	Name        string
	ContentType string
}

// Registry issues local preview handles for selected files and tracks which
// are still live. Releasing an unknown handle is a no-op.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Allocate registers a candidate and returns its handle
func (r *Registry) Allocate(c domain.FileCandidate) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to allocate preview handle: %w", err)
	}
	handle := "preview-" + id.String()

	r.mu.Lock()
	r.entries[handle] = Entry{Handle: handle, Name: c.Name, ContentType: c.ContentType}
	r.mu.Unlock()

	return handle, nil
}

// Release frees a handle
func (r *Registry) Release(handle string) {
	r.mu.Lock()
	delete(r.entries, handle)
	r.mu.Unlock()
}

// Lookup returns the entry for a live handle
func (r *Registry) Lookup(handle string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[handle]
	return e, ok
}

// Live returns the number of unreleased handles
func (r *Registry) Live() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
