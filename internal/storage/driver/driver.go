// Package driver opens the document substrate selected by configuration.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/demobank/internal/storage"
	"github.com/louisbranch/demobank/internal/storage/bbolt"
	"github.com/louisbranch/demobank/internal/storage/memory"
	"github.com/louisbranch/demobank/internal/storage/postgres"
	"github.com/louisbranch/demobank/internal/storage/sqlite"
)

// Supported driver names.
const (
	Bolt     = "bbolt"
	SQLite   = "sqlite"
	Postgres = "postgres"
	Memory   = "memory"
)

// Config selects and locates a substrate.
type Config struct {
	Driver      string `env:"DEMOBANK_STORAGE_DRIVER" envDefault:"bbolt"`
	Path        string `env:"DEMOBANK_STORAGE_PATH" envDefault:"data/demobank.db"`
	PostgresDSN string `env:"DEMOBANK_POSTGRES_DSN"`
}

// Open returns the substrate named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (storage.Substrate, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case Bolt, "":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		store, err := bbolt.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case SQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		store, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case Postgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case Memory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("storage path is required")
	}
	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	return nil
}
