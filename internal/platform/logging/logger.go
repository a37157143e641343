// Package logging builds the zerolog loggers used across demobank commands.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Version is stamped on every log line.
const Version = "0.1.0"

// Config controls structured logging settings.
type Config struct {
	Level   string `env:"DEMOBANK_LOG_LEVEL" envDefault:"info"`
	Pretty  bool   `env:"DEMOBANK_LOG_PRETTY" envDefault:"false"`
	Service string
}

// New builds a logger writing to stdout.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter builds a logger writing to out. Pretty mode renders a
// human-readable console format instead of JSON lines.
func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = io.Discard
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = "demobank"
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("version", Version).
		Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
