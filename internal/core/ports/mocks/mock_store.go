package mocks

import (
	"context"
	"sync"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

// MockStore is an in-memory Store for testing
type MockStore struct {
	mu      sync.RWMutex
	entries map[domain.ShareKey]domain.EncodedImage

	// PutErr and GetErr are returned instead of touching the map when set
	PutErr error
	GetErr error

	PutCalls int
	GetCalls int
}

// NewMockStore creates an empty mock store
func NewMockStore() *MockStore {
	return &MockStore{
		entries: make(map[domain.ShareKey]domain.EncodedImage),
	}
}

// Put stores value under key unless PutErr is set
func (m *MockStore) Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.entries[key] = value
	return nil
}

// Get returns the stored value, domain.ErrNotFound, or GetErr
func (m *MockStore) Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.entries[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// Len returns the number of stored entries
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Has reports whether key was written
func (m *MockStore) Has(key domain.ShareKey) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[key]
	return ok
}
