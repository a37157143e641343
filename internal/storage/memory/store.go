// Package memory provides an in-process document substrate with fault
// injection hooks for tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/demobank/internal/storage"
)

// Store keeps documents in a map guarded by a mutex.
type Store struct {
	mu        sync.Mutex
	docs      map[string]storage.Document
	getErr    error
	putErr    error
	beforePut func(key string)
	puts      int
	clock     func() time.Time
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{docs: make(map[string]storage.Document), clock: time.Now}
}

// WithGetError makes subsequent Get calls fail with err. Nil clears it.
func (s *Store) WithGetError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
	return s
}

// WithPutError makes subsequent Put calls fail with err. Nil clears it.
func (s *Store) WithPutError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
	return s
}

// BeforePut registers fn to run at the start of every Put, outside the lock.
func (s *Store) BeforePut(fn func(key string)) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforePut = fn
	return s
}

// SetRaw stores body under key at the next revision, skipping the CAS check.
func (s *Store) SetRaw(key string, body []byte) storage.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := storage.Document{
		Key:       key,
		Body:      append([]byte(nil), body...),
		Revision:  s.docs[key].Revision + 1,
		UpdatedAt: s.clock().UTC(),
	}
	s.docs[key] = doc
	return doc
}

// PutCount reports how many Put calls reached the store.
func (s *Store) PutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// Get returns the document stored under key.
func (s *Store) Get(ctx context.Context, key string) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if strings.TrimSpace(key) == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return storage.Document{}, s.getErr
	}
	doc, ok := s.docs[key]
	if !ok {
		return storage.Document{}, storage.ErrNotFound
	}
	doc.Body = append([]byte(nil), doc.Body...)
	return doc, nil
}

// Put stores body when the current revision equals expectedRevision.
func (s *Store) Put(ctx context.Context, key string, body []byte, expectedRevision uint64) (storage.Document, error) {
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}
	if strings.TrimSpace(key) == "" {
		return storage.Document{}, fmt.Errorf("document key is required")
	}

	s.mu.Lock()
	hook := s.beforePut
	s.mu.Unlock()
	if hook != nil {
		hook(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return storage.Document{}, s.putErr
	}
	current := s.docs[key].Revision
	if current != expectedRevision {
		return storage.Document{}, fmt.Errorf("%w: key %s at revision %d, expected %d", storage.ErrRevisionConflict, key, current, expectedRevision)
	}
	doc := storage.Document{
		Key:       key,
		Body:      append([]byte(nil), body...),
		Revision:  expectedRevision + 1,
		UpdatedAt: s.clock().UTC(),
	}
	s.docs[key] = doc
	return doc, nil
}

var _ storage.Substrate = (*Store)(nil)
