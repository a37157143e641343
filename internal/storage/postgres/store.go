// Package postgres provides a PostgreSQL-backed document substrate.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/louisbranch/demobank/internal/storage"
)

const uniqueViolation = "23505"

//go:embed schema.sql
var schemaSQL string

// Store persists documents in PostgreSQL.
type Store struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// Open connects to PostgreSQL and ensures the documents table exists.
func Open(ctx context.Context, connString string) (*Store, error) {
	if strings.TrimSpace(connString) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure documents table: %w", err)
	}

	return &Store{pool: pool, clock: time.Now}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// Get returns one document by key.
func (s *Store) Get(ctx context.Context, key string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.pool == nil {
		return storage.Document{}, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	var (
		revision  int64
		body      []byte
		updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx,
		"SELECT revision, body, updated_at FROM documents WHERE doc_key = $1",
		key,
	).Scan(&revision, &body, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

// Put inserts or updates one document when expectedRevision matches.
func (s *Store) Put(ctx context.Context, key string, body []byte, expectedRevision uint64) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.pool == nil {
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
		UpdatedAt: s.clock().UTC().Truncate(time.Microsecond),
	}

	if expectedRevision == 0 {
		_, err := s.pool.Exec(ctx,
			"INSERT INTO documents (doc_key, revision, body, updated_at) VALUES ($1, $2, $3, $4)",
			key, int64(doc.Revision), doc.Body, doc.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return storage.Document{}, fmt.Errorf("%w: key %s already exists", storage.ErrRevisionConflict, key)
			}
			return storage.Document{}, fmt.Errorf("insert document: %w", err)
		}
		return doc, nil
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE documents SET revision = $1, body = $2, updated_at = $3 WHERE doc_key = $4 AND revision = $5",
		int64(doc.Revision), doc.Body, doc.UpdatedAt, key, int64(expectedRevision),
	)
	if err != nil {
		return storage.Document{}, fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Document{}, fmt.Errorf("%w: key %s expected revision %d", storage.ErrRevisionConflict, key, expectedRevision)
	}
	return doc, nil
}

var _ storage.Substrate = (*Store)(nil)
