// Package bankctl implements the operator CLI over the persisted demo bank.
package bankctl

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/bank/service"
	"github.com/louisbranch/demobank/internal/bank/store"
	entrypoint "github.com/louisbranch/demobank/internal/platform/cmd"
	"github.com/louisbranch/demobank/internal/platform/logging"
	"github.com/louisbranch/demobank/internal/platform/otel"
	"github.com/louisbranch/demobank/internal/platform/timeouts"
	"github.com/louisbranch/demobank/internal/storage/driver"
)

// Config holds bankctl configuration.
type Config struct {
	Storage    driver.Config
	Logging    logging.Config
	Telemetry  otel.Config
	Timeout    time.Duration `env:"DEMOBANK_BANKCTL_TIMEOUT"`
	JSONOutput bool
	// Args holds the subcommand and its arguments.
	Args []string
}

// ParseConfig parses environment and global flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.Operation
	}
	fs.StringVar(&cfg.Storage.Driver, "storage", cfg.Storage.Driver, "storage driver: bbolt, sqlite, postgres or memory")
	fs.StringVar(&cfg.Storage.Path, "db", cfg.Storage.Path, "database file for bbolt and sqlite")
	fs.StringVar(&cfg.Storage.PostgresDSN, "postgres-dsn", cfg.Storage.PostgresDSN, "postgres connection string")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout")
	fs.StringVar(&cfg.Logging.Level, "log-level", "warn", "log level")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: bankctl [flags] <command> [command flags]\n\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(out, "  %-16s %s\n", c.name, c.summary)
		}
		fmt.Fprintf(out, "\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()
	if len(cfg.Args) == 0 {
		return Config{}, errors.New("command is required")
	}
	return cfg, nil
}

// Run opens the configured store and executes one subcommand.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if len(cfg.Args) == 0 {
		return errors.New("command is required")
	}
	cmd, ok := lookupCommand(cfg.Args[0])
	if !ok {
		return fmt.Errorf("unknown command %q", cfg.Args[0])
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBankctl, cfg.Telemetry, func(ctx context.Context) error {
		cfg.Logging.Service = entrypoint.ServiceBankctl
		logger := logging.NewWithWriter(cfg.Logging, errOut)

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
		return execute(ctx, bank, cmd, cfg.Args[1:], newPrinter(out, cfg.JSONOutput), errOut)
	})
}

// execute runs one command against bank.
func execute(ctx context.Context, bank *service.Bank, cmd command, args []string, p printer, errOut io.Writer) error {
	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	run := cmd.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected arguments %s", cmd.name, strings.Join(fs.Args(), " "))
	}
	return run(ctx, bank, p)
}
