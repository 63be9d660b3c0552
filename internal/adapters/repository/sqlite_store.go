package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/kamal-hamza/pixelshare/internal/core/domain"
)

const sharesSchema = `
CREATE TABLE IF NOT EXISTS shares (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`

// SQLiteStore persists shares in a single SQLite table
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore creates or opens the database at path.
// Safe to call repeatedly on the same file.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sharesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key domain.ShareKey, value domain.EncodedImage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shares (key, value, created_at) VALUES (?, ?, ?)`,
		string(key), string(value), time.Now().UnixMilli(),
	)
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == sqlite3.ErrFull {
			return domain.NewStoreFullError("put", err)
		}
		return domain.NewStoreUnavailableError("put", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key domain.ShareKey) (domain.EncodedImage, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM shares WHERE key = ?`, string(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", domain.NewStoreUnavailableError("get", err)
	}
	return domain.EncodedImage(value), nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
