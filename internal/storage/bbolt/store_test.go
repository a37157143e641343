package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/demobank/internal/storage"
	"github.com/louisbranch/demobank/internal/storage/storagetest"
	"go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "demobank.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Substrate {
		return openTestStore(t)
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demobank.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.Put(ctx, "profile", []byte(`{"balance":"10.00"}`), 0); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	doc, err := reopened.Get(ctx, "profile")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(doc.Body) != `{"balance":"10.00"}` {
		t.Fatalf("expected persisted body, got %s", doc.Body)
	}
	if doc.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", doc.Revision)
	}
}

func TestStoreStampsUpdatedAt(t *testing.T) {
	store := openTestStore(t)
	fixed := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	store.clock = func() time.Time { return fixed }

	doc, err := store.Put(context.Background(), "posts", []byte(`[]`), 0)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !doc.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected updated at %v, got %v", fixed, doc.UpdatedAt)
	}
	loaded, err := store.Get(context.Background(), "posts")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !loaded.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected stored updated at %v, got %v", fixed, loaded.UpdatedAt)
	}
}

func TestStoreGetCorruptRecord(t *testing.T) {
	store := openTestStore(t)
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(documentBucket)).Put([]byte("profile"), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	_, err = store.Get(context.Background(), "profile")
	if !errors.Is(err, storage.ErrCorruptRecord) {
		t.Fatalf("expected corrupt record, got %v", err)
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil close to succeed, got %v", err)
	}
	if _, err := store.Get(context.Background(), "profile"); err == nil {
		t.Fatal("expected error from nil store")
	}
}
