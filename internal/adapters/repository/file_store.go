package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/pkg/vault"
)

// shareRecord is the on-disk form of a single store entry
type shareRecord struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// FileStore persists each share as one JSON file inside the vault.
// File names are derived from a hash of the key, so arbitrary user input
// can never escape the shares directory.
type FileStore struct {
	dir string
}

func NewFileStore(v *vault.Vault) *FileStore {
	return &FileStore{dir: v.SharesPath}
}

// NewFileStoreAt creates a store rooted at dir
func NewFileStoreAt(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) entryPath(key domain.ShareKey) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

// Put writes the entry atomically (temp file + hard link) and refuses to
// overwrite an existing key
func (s *FileStore) Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreUnavailableError("put", err)
	}

	data, err := json.Marshal(shareRecord{
		Key:       string(key),
		Value:     string(value),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.NewStoreUnavailableError("put", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".share-*.tmp")
	if err != nil {
		return classifyWriteError(err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return classifyWriteError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return classifyWriteError(err)
	}

	// Link fails if the entry exists, so a written entry is never replaced
	err = os.Link(tmpPath, s.entryPath(key))
	os.Remove(tmpPath)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return domain.NewStoreUnavailableError("put", fmt.Errorf("entry %q already exists", key))
		}
		return classifyWriteError(err)
	}

	return nil
}

// Get reads an entry; unknown or malformed keys yield domain.ErrNotFound
func (s *FileStore) Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewStoreUnavailableError("get", err)
	}

	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		return "", domain.NewStoreUnavailableError("get", fmt.Errorf("shares directory %s is not readable", s.dir))
	}

	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNotFound
		}
		return "", domain.NewStoreUnavailableError("get", err)
	}

	var rec shareRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", domain.NewStoreUnavailableError("get", fmt.Errorf("corrupt entry: %w", err))
	}
	if rec.Key != string(key) {
		return "", domain.ErrNotFound
	}

	return domain.EncodedImage(rec.Value), nil
}

// Close is a no-op; FileStore holds no open handles
func (s *FileStore) Close() error {
	return nil
}

func classifyWriteError(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return domain.NewStoreFullError("put", err)
	}
	return domain.NewStoreUnavailableError("put", err)
}
