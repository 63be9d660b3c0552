package ports

import (
	"context"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

// Store defines the port for share persistence.
// Entries are written once and never updated or deleted by this program.
type Store interface {
	// Put persists an encoded image under key.
	// Fails with a *domain.StoreError when the medium rejects the write.
	Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error

	// Get returns the encoded image for key.
	// Returns domain.ErrNotFound when the key was never written, including malformed keys.
	Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error)
}

// Codec defines the port for converting images to and from text
type Codec interface {
	// Encode reads the asset source and returns its textual form
	Encode(ctx context.Context, asset domain.ImageAsset) (domain.EncodedImage, error)

	// Decode recovers a displayable payload from text
	Decode(text domain.EncodedImage) (domain.DecodedImage, error)
}

// KeyGenerator defines the port for minting share keys
type KeyGenerator interface {
	// Next returns a key that was never returned before in this process
	Next() (domain.ShareKey, error)
}

// PreviewAllocator defines the port for local preview handles.
// Every allocated handle must be released exactly once.
type PreviewAllocator interface {
	Allocate(c domain.FileCandidate) (string, error)
	Release(handle string)
}
