// Package bbolt provides a BoltDB-backed document substrate.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/storage"
	"go.etcd.io/bbolt"
)

const documentBucket = "documents"

// record is the on-disk framing around a document body.
type record struct {
	Revision  uint64    `json:"revision"`
	UpdatedAt time.Time `json:"updated_at"`
	Body      []byte    `json:"body"`
}

// Store provides a BoltDB-backed substrate.
type Store struct {
	db    *bbolt.DB
	clock func() time.Time
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db, clock: time.Now}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get fetches a document by key.
func (s *Store) Get(ctx context.Context, key string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.db == nil {
		return storage.Document{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	var doc storage.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentBucket))
		if bucket == nil {
			return fmt.Errorf("document bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return storage.ErrNotFound
		}
		rec, err := decodeRecord(payload)
		if err != nil {
			return err
		}
		doc = storage.Document{
			Key:       key,
			Body:      rec.Body,
			Revision:  rec.Revision,
			UpdatedAt: rec.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return storage.Document{}, err
	}
	return doc, nil
}

// Put writes a document if the stored revision matches expectedRevision.
func (s *Store) Put(ctx context.Context, key string, body []byte, expectedRevision uint64) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if s == nil || s.db == nil {
		return storage.Document{}, fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	rec := record{
		Revision:  expectedRevision + 1,
		UpdatedAt: s.clock().UTC(),
		Body:      append([]byte(nil), body...),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return storage.Document{}, fmt.Errorf("marshal document: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(documentBucket))
		if bucket == nil {
			return fmt.Errorf("document bucket is missing")
		}
		var current uint64
		if existing := bucket.Get([]byte(key)); existing != nil {
			stored, err := decodeRecord(existing)
			if err != nil {
				return err
			}
			current = stored.Revision
		}
		if current != expectedRevision {
			return fmt.Errorf("%w: key %s at revision %d, expected %d", storage.ErrRevisionConflict, key, current, expectedRevision)
		}
		return bucket.Put([]byte(key), payload)
	})
	if err != nil {
		return storage.Document{}, err
	}

	return storage.Document{
		Key:       key,
		Body:      rec.Body,
		Revision:  rec.Revision,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(documentBucket))
		if err != nil {
			return fmt.Errorf("create document bucket: %w", err)
		}
		return nil
	})
}

func decodeRecord(payload []byte) (record, error) {
	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return record{}, fmt.Errorf("%w: %v", storage.ErrCorruptRecord, err)
	}
	return rec, nil
}

var _ storage.Substrate = (*Store)(nil)
