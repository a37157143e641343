// Package otel wires OpenTelemetry tracing for demobank commands.
package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controls trace export for one process.
type Config struct {
	// Endpoint is the OTLP/HTTP collector URL. Tracing stays off while empty.
	Endpoint    string  `env:"DEMOBANK_OTEL_ENDPOINT"`
	Enabled     bool    `env:"DEMOBANK_OTEL_ENABLED" envDefault:"true"`
	SampleRatio float64 `env:"DEMOBANK_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Active reports whether cfg asks for spans to be exported.
func (c Config) Active() bool {
	return c.Enabled && strings.TrimSpace(c.Endpoint) != ""
}

// Validate checks the sampling settings of an active config.
func (c Config) Validate() error {
	if !c.Active() {
		return nil
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("otel sample ratio %v must be between 0 and 1", c.SampleRatio)
	}
	return nil
}

// Setup registers a global tracer provider for serviceName when cfg is
// active. The returned shutdown function flushes pending spans and is never
// nil; for an inactive config it does nothing.
func Setup(ctx context.Context, serviceName string, cfg Config) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}
	if err := cfg.Validate(); err != nil {
		return noop, err
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(cfg.Endpoint)),
	)
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceNamespace("demobank"),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
