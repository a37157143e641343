// Package cmd holds the startup helpers shared by every demobank command.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/louisbranch/demobank/internal/platform/config"
	"github.com/louisbranch/demobank/internal/platform/otel"
	"github.com/louisbranch/demobank/internal/platform/timeouts"
)

// Command names, used as the telemetry service name and the log service field.
const (
	ServiceConsole = "console"
	ServiceBankctl = "bankctl"
)

// ParseConfig loads an optional .env file and then environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry installs tracing per telemetry, runs fn, then flushes
// spans. A flush failure is reported alongside the error from fn.
func RunWithTelemetry(ctx context.Context, service string, telemetry otel.Config, fn func(context.Context) error) (err error) {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if fn == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := otel.Setup(ctx, service, telemetry)
	if err != nil {
		return fmt.Errorf("%s telemetry: %w", service, err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if flushErr := shutdown(flushCtx); flushErr != nil {
			err = errors.Join(err, fmt.Errorf("%s telemetry shutdown: %w", service, flushErr))
		}
	}()
	return fn(ctx)
}
