package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

// MockPreviewAllocator hands out sequential handles and tracks live ones
type MockPreviewAllocator struct {
	mu       sync.Mutex
	next     int
	live     map[string]bool
	Released []string
	Err      error
}

// NewMockPreviewAllocator creates an allocator with no live handles
func NewMockPreviewAllocator() *MockPreviewAllocator {
	return &MockPreviewAllocator{live: make(map[string]bool)}
}

func (m *MockPreviewAllocator) Allocate(c domain.FileCandidate) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	m.next++
	handle := fmt.Sprintf("preview-%d", m.next)
	m.live[handle] = true
	return handle, nil
}

func (m *MockPreviewAllocator) Release(handle string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.live, handle)
	m.Released = append(m.Released, handle)
}

// Live returns the number of handles allocated but not yet released
func (m *MockPreviewAllocator) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// MockKeyGenerator returns predictable keys, or Err when set
type MockKeyGenerator struct {
	mu  sync.Mutex
	n   int
	Err error
}

func (m *MockKeyGenerator) Next() (domain.ShareKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	m.n++
	return domain.ShareKey(fmt.Sprintf("pixelperfect-%d-test%03d", 1700000000000+m.n, m.n)), nil
}

// FailingCodec fails every Encode with Err and delegates Decode to Inner
type FailingCodec struct {
	Inner interface {
		Decode(text domain.EncodedImage) (domain.DecodedImage, error)
	}
	Err error
}

func (f *FailingCodec) Encode(ctx context.Context, asset domain.ImageAsset) (domain.EncodedImage, error) {
	return "", &domain.EncodeError{Err: f.Err}
}

func (f *FailingCodec) Decode(text domain.EncodedImage) (domain.DecodedImage, error) {
	if f.Inner == nil {
		return domain.DecodedImage{}, &domain.DecodeError{Reason: "no decoder"}
	}
	return f.Inner.Decode(text)
}

// BlockingStore wraps a Store and holds every call until Release is closed
type BlockingStore struct {
	Inner interface {
		Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error
		Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error)
	}
	Entered chan struct{}
	Release chan struct{}
}

// NewBlockingStore wraps inner; Entered receives once per call
func NewBlockingStore(inner *MockStore) *BlockingStore {
	return &BlockingStore{
		Inner:   inner,
		Entered: make(chan struct{}, 16),
		Release: make(chan struct{}),
	}
}

func (b *BlockingStore) Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error {
	b.Entered <- struct{}{}
	<-b.Release
	return b.Inner.Put(ctx, key, value)
}

func (b *BlockingStore) Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error) {
	b.Entered <- struct{}{}
	<-b.Release
	return b.Inner.Get(ctx, key)
}
