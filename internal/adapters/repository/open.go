package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/vault"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ShareStore is a store that owns resources and must be closed
type ShareStore interface {
	Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error
	Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error)
	Close() error
}

// Open returns the configured store backend inside the vault
func Open(backend string, v *vault.Vault) (ShareStore, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLiteStore(v.DatabasePath())
	case BackendFile, "":
		if err := os.MkdirAll(v.SharesPath, 0755); err != nil {
			return nil, fmt.Errorf("failed to create shares directory: %w", err)
		}
		return NewFileStore(v), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
