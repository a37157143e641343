package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested document is missing.
	ErrNotFound = errors.New("record not found")
	// ErrRevisionConflict indicates a write whose expected revision did not
	// match the stored revision.
	ErrRevisionConflict = errors.New("revision conflict")
	// ErrCorruptRecord indicates the substrate's own record framing could not
	// be read back.
	ErrCorruptRecord = errors.New("corrupt record")
)

// Document is one stored value and the revision stamp it was written at.
type Document struct {
	Key       string
	Body      []byte
	Revision  uint64
	UpdatedAt time.Time
}

// Substrate is a durable key to document store with compare-and-swap writes.
//
// Put succeeds only when the stored revision equals expectedRevision, where
// revision 0 means the key must be absent. A successful Put stores the body at
// expectedRevision+1 and returns the stored document.
type Substrate interface {
	Get(ctx context.Context, key string) (Document, error)
	Put(ctx context.Context, key string, body []byte, expectedRevision uint64) (Document, error)
	Close() error
}
