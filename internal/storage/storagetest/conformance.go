// Package storagetest holds behavioral checks shared by every substrate backend.
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/louisbranch/demobank/internal/storage"
)

// Factory opens a fresh, empty substrate for one subtest.
type Factory func(t *testing.T) storage.Substrate

// Run exercises the substrate contract against the backend produced by open.
func Run(t *testing.T, open Factory) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		store := open(t)
		_, err := store.Get(context.Background(), "profile")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("create then get", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		body := []byte(`{"name":"Adaeze"}`)

		created, err := store.Put(ctx, "profile", body, 0)
		if err != nil {
			t.Fatalf("put: %v", err)
		}
		if created.Revision != 1 {
			t.Fatalf("expected revision 1, got %d", created.Revision)
		}

		loaded, err := store.Get(ctx, "profile")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !bytes.Equal(loaded.Body, body) {
			t.Fatalf("expected body %s, got %s", body, loaded.Body)
		}
		if loaded.Revision != 1 {
			t.Fatalf("expected revision 1, got %d", loaded.Revision)
		}
		if loaded.Key != "profile" {
			t.Fatalf("expected key profile, got %q", loaded.Key)
		}
	})

	t.Run("update advances revision", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		if _, err := store.Put(ctx, "posts", []byte(`[]`), 0); err != nil {
			t.Fatalf("create: %v", err)
		}
		updated, err := store.Put(ctx, "posts", []byte(`[1]`), 1)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Revision != 2 {
			t.Fatalf("expected revision 2, got %d", updated.Revision)
		}
		loaded, err := store.Get(ctx, "posts")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(loaded.Body) != `[1]` {
			t.Fatalf("expected updated body, got %s", loaded.Body)
		}
	})

	t.Run("create conflicts with existing key", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		if _, err := store.Put(ctx, "profile", []byte(`{}`), 0); err != nil {
			t.Fatalf("create: %v", err)
		}
		_, err := store.Put(ctx, "profile", []byte(`{"x":1}`), 0)
		if !errors.Is(err, storage.ErrRevisionConflict) {
			t.Fatalf("expected revision conflict, got %v", err)
		}
	})

	t.Run("stale revision leaves stored body untouched", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		if _, err := store.Put(ctx, "kyc_requests", []byte(`["a"]`), 0); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := store.Put(ctx, "kyc_requests", []byte(`["b"]`), 1); err != nil {
			t.Fatalf("update: %v", err)
		}
		_, err := store.Put(ctx, "kyc_requests", []byte(`["stale"]`), 1)
		if !errors.Is(err, storage.ErrRevisionConflict) {
			t.Fatalf("expected revision conflict, got %v", err)
		}
		loaded, err := store.Get(ctx, "kyc_requests")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(loaded.Body) != `["b"]` || loaded.Revision != 2 {
			t.Fatalf("expected body [\"b\"] at revision 2, got %s at %d", loaded.Body, loaded.Revision)
		}
	})

	t.Run("update of missing key conflicts", func(t *testing.T) {
		store := open(t)
		_, err := store.Put(context.Background(), "profile", []byte(`{}`), 3)
		if !errors.Is(err, storage.ErrRevisionConflict) {
			t.Fatalf("expected revision conflict, got %v", err)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()

		if _, err := store.Put(ctx, "profile", []byte(`{}`), 0); err != nil {
			t.Fatalf("put profile: %v", err)
		}
		if _, err := store.Get(ctx, "posts"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected posts not found, got %v", err)
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		store := open(t)
		if _, err := store.Put(context.Background(), " ", []byte(`{}`), 0); err == nil {
			t.Fatal("expected error for empty key")
		}
		if _, err := store.Get(context.Background(), ""); err == nil {
			t.Fatal("expected error for empty key")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		store := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := store.Get(ctx, "profile"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled on get, got %v", err)
		}
		if _, err := store.Put(ctx, "profile", []byte(`{}`), 0); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled on put, got %v", err)
		}
	})
}
