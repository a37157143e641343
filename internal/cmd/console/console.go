// Package console parses console service flags and launches the HTTP API.
package console

import (
	"context"
	"flag"
	"fmt"

	"github.com/louisbranch/demobank/internal/api"
	"github.com/louisbranch/demobank/internal/bank/service"
	"github.com/louisbranch/demobank/internal/bank/store"
	entrypoint "github.com/louisbranch/demobank/internal/platform/cmd"
	"github.com/louisbranch/demobank/internal/platform/logging"
	"github.com/louisbranch/demobank/internal/platform/otel"
	"github.com/louisbranch/demobank/internal/storage/driver"
)

// Config holds console command configuration.
type Config struct {
	HTTPAddr  string `env:"DEMOBANK_CONSOLE_ADDR" envDefault:":8095"`
	Storage   driver.Config
	Logging   logging.Config
	Telemetry otel.Config
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Storage.Driver, "storage", cfg.Storage.Driver, "Storage driver: bbolt, sqlite, postgres or memory")
	fs.StringVar(&cfg.Storage.Path, "db", cfg.Storage.Path, "Database file for bbolt and sqlite")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level")
	fs.StringVar(&cfg.Telemetry.Endpoint, "otel-endpoint", cfg.Telemetry.Endpoint, "OTLP/HTTP trace collector URL")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the console HTTP API until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsole, cfg.Telemetry, func(ctx context.Context) error {
		cfg.Logging.Service = entrypoint.ServiceConsole
		logger := logging.New(cfg.Logging)

		substrate, err := driver.Open(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		bankStore, err := store.New(substrate, store.WithLogger(logger))
		if err != nil {
			_ = substrate.Close()
			return fmt.Errorf("open bank store: %w", err)
		}
		defer func() {
			if err := bankStore.Close(); err != nil {
				logger.Error().Err(err).Msg("close bank store")
			}
		}()

		bank := service.New(bankStore, service.WithLogger(logger))
		server, err := api.NewServer(cfg.HTTPAddr, api.NewHandler(bank, logger).Router())
		if err != nil {
			return err
		}
		logger.Info().
			Str("addr", server.Addr()).
			Str("storage", cfg.Storage.Driver).
			Msg("console listening")
		return server.ListenAndServe(ctx)
	})
}
