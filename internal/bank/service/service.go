// Package service exposes the demo bank's operations: the account ledger,
// card registry, loan book, compliance queue and content repository.
//
// Services hold no state of their own. Every call loads the current snapshot
// through the injected store, applies a domain rule and writes the result
// back before returning.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/bank/domain"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/louisbranch/demobank/internal/platform/filter"
	"github.com/louisbranch/demobank/internal/platform/id"
	"github.com/louisbranch/demobank/internal/platform/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/demobank/internal/bank/service"

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "demobank_operations_total",
	Help: "Bank operations processed, labeled by operation and outcome",
}, []string{"operation", "outcome"})

// ProfileStore loads and persists the account profile.
type ProfileStore interface {
	Profile(ctx context.Context) (domain.UserProfile, error)
	MutateProfile(ctx context.Context, fn func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error)
}

// PostStore loads and persists the article collection.
type PostStore interface {
	Posts(ctx context.Context) ([]domain.BlogPost, error)
	MutatePosts(ctx context.Context, fn func([]domain.BlogPost) ([]domain.BlogPost, error)) ([]domain.BlogPost, error)
}

// KYCStore loads and persists the compliance queue.
type KYCStore interface {
	KYCRequests(ctx context.Context) ([]domain.KYCRequest, error)
	MutateKYCRequests(ctx context.Context, fn func([]domain.KYCRequest) ([]domain.KYCRequest, error)) ([]domain.KYCRequest, error)
}

// Store is everything the bank services need from persistence.
type Store interface {
	ProfileStore
	PostStore
	KYCStore
}

// Option configures a service.
type Option func(*base)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(b *base) {
		if generator != nil {
			b.idGenerator = generator
		}
	}
}

// WithLogger sets the operation logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

type base struct {
	now         func() time.Time
	idGenerator func() (string, error)
	logger      zerolog.Logger
	tracer      trace.Tracer
}

func newBase(opts []Option) base {
	b := base{
		now:         time.Now,
		idGenerator: id.NewID,
		logger:      logging.Nop(),
		tracer:      otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// observe starts a span for operation and returns a finisher that records
// the outcome on the span, the operations counter and the log.
func (b base) observe(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := b.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		defer span.End()
		if err == nil {
			operationsTotal.WithLabelValues(operation, "ok").Inc()
			return
		}

		code := apperrors.GetCode(err)
		operationsTotal.WithLabelValues(operation, strings.ToLower(string(code))).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		span.SetAttributes(attribute.String("demobank.error_code", string(code)))

		if code.Fatal() {
			b.logger.Error().Err(err).Str("operation", operation).Str("code", string(code)).Msg("operation failed")
			return
		}
		b.logger.Warn().Err(err).Str("operation", operation).Str("code", string(code)).Msg("operation rejected")
	}
}

func compileFilter(expression string, fields ...string) (filter.Matcher, error) {
	matcher, err := filter.Compile(expression, fields...)
	if err != nil {
		return filter.Matcher{}, apperrors.WrapWithMetadata(
			apperrors.CodeInvalidArgument,
			"invalid filter",
			map[string]string{"Field": "filter", "Reason": err.Error()},
			err,
		)
	}
	return matcher, nil
}

// Bank bundles the services over one store.
type Bank struct {
	Ledger     *Ledger
	Cards      *CardRegistry
	Loans      *LoanBook
	Compliance *ComplianceQueue
	Content    *ContentRepository
}

// New builds every service over store with shared options.
func New(store Store, opts ...Option) *Bank {
	return &Bank{
		Ledger:     NewLedger(store, opts...),
		Cards:      NewCardRegistry(store, opts...),
		Loans:      NewLoanBook(store, opts...),
		Compliance: NewComplianceQueue(store, opts...),
		Content:    NewContentRepository(store, opts...),
	}
}
