// Package sqlite provides a SQLite-backed document substrate.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/demobank/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/demobank/internal/storage"
	"github.com/louisbranch/demobank/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists documents in SQLite.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite document store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns one document by key.
func (s *Store) Get(ctx context.Context, key string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Document{}, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	var (
		revision  int64
		body      []byte
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT revision, body, updated_at FROM documents WHERE doc_key = ?`,
		key,
	).Scan(&revision, &body, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Document{}, storage.ErrNotFound
		}
		return storage.Document{}, fmt.Errorf("get document: %w", err)
	}
	if revision <= 0 {
		return storage.Document{}, fmt.Errorf("%w: key %s has revision %d", storage.ErrCorruptRecord, key, revision)
	}

	return storage.Document{
		Key:       key,
		Body:      body,
		Revision:  uint64(revision),
		UpdatedAt: fromMillis(updatedAt),
	}, nil
}

// Put inserts or updates one document when expectedRevision matches.
func (s *Store) Put(ctx context.Context, key string, body []byte, expectedRevision uint64) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Document{}, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	doc := storage.Document{
		Key:       key,
		Body:      append([]byte(nil), body...),
		Revision:  expectedRevision + 1,
		UpdatedAt: s.clock().UTC().Truncate(time.Millisecond),
	}

	if expectedRevision == 0 {
		_, err := s.sqlDB.ExecContext(
			ctx,
			`INSERT INTO documents (doc_key, revision, body, updated_at) VALUES (?, ?, ?, ?)`,
			key,
			int64(doc.Revision),
			doc.Body,
			toMillis(doc.UpdatedAt),
		)
		if err != nil {
			if isDocumentKeyUniqueViolation(err) {
				return storage.Document{}, fmt.Errorf("%w: key %s already exists", storage.ErrRevisionConflict, key)
			}
			return storage.Document{}, fmt.Errorf("insert document: %w", err)
		}
		return doc, nil
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE documents SET revision = ?, body = ?, updated_at = ? WHERE doc_key = ? AND revision = ?`,
		int64(doc.Revision),
		doc.Body,
		toMillis(doc.UpdatedAt),
		key,
		int64(expectedRevision),
	)
	if err != nil {
		return storage.Document{}, fmt.Errorf("update document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.Document{}, fmt.Errorf("update document rows affected: %w", err)
	}
	if affected == 0 {
		return storage.Document{}, fmt.Errorf("%w: key %s expected revision %d", storage.ErrRevisionConflict, key, expectedRevision)
	}
	return doc, nil
}

func isDocumentKeyUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "documents.doc_key")
}

var _ storage.Substrate = (*Store)(nil)
