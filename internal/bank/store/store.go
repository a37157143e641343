// Package store persists the demo bank's documents over a storage substrate.
//
// Each logical collection lives under one key. Reads seed the key with the
// default dataset when it is absent. Writes are read-modify-write cycles that
// hold a per-key lock in process and compare-and-swap on the revision they
// read, so a writer in another process surfaces as CONCURRENT_MODIFICATION
// instead of a lost update.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/bank/store/seed"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/louisbranch/demobank/internal/platform/logging"
	"github.com/louisbranch/demobank/internal/storage"
	"github.com/rs/zerolog"
)

// Document keys.
const (
	KeyProfile     = "profile"
	KeyPosts       = "posts"
	KeyKYCRequests = "kyc_requests"
)

// Store is the single source of truth for bank state.
type Store struct {
	substrate storage.Substrate
	logger    zerolog.Logger
	locks     keyLocks
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for seeding and write events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New wraps a substrate.
func New(substrate storage.Substrate, opts ...Option) (*Store, error) {
	if substrate == nil {
		return nil, fmt.Errorf("substrate is required")
	}
	s := &Store{substrate: substrate, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying substrate.
func (s *Store) Close() error {
	if s == nil || s.substrate == nil {
		return nil
	}
	return s.substrate.Close()
}

var (
	profileCollection = collection[domain.UserProfile]{
		key:      KeyProfile,
		encode:   EncodeProfile,
		decode:   DecodeProfile,
		validate: domain.UserProfile.Validate,
		seed:     seed.Profile,
	}
	postsCollection = collection[[]domain.BlogPost]{
		key:      KeyPosts,
		encode:   EncodePosts,
		decode:   DecodePosts,
		validate: domain.ValidatePosts,
		seed:     seed.Posts,
	}
	kycCollection = collection[[]domain.KYCRequest]{
		key:      KeyKYCRequests,
		encode:   EncodeKYCRequests,
		decode:   DecodeKYCRequests,
		validate: domain.ValidateKYCRequests,
		seed:     seed.KYCRequests,
	}
)

// Profile returns the current profile snapshot.
func (s *Store) Profile(ctx context.Context) (domain.UserProfile, error) {
	return read(ctx, s, profileCollection)
}

// MutateProfile applies fn to the current profile and persists the result.
// Nothing is written when fn fails.
func (s *Store) MutateProfile(ctx context.Context, fn func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error) {
	return mutate(ctx, s, profileCollection, fn)
}

// Posts returns the article collection, newest first.
func (s *Store) Posts(ctx context.Context) ([]domain.BlogPost, error) {
	return read(ctx, s, postsCollection)
}

// MutatePosts applies fn to the article collection and persists the result.
func (s *Store) MutatePosts(ctx context.Context, fn func([]domain.BlogPost) ([]domain.BlogPost, error)) ([]domain.BlogPost, error) {
	return mutate(ctx, s, postsCollection, fn)
}

// KYCRequests returns the compliance queue, including migrated seed entries.
func (s *Store) KYCRequests(ctx context.Context) ([]domain.KYCRequest, error) {
	return read(ctx, s, kycCollection)
}

// MutateKYCRequests applies fn to the compliance queue and persists the result.
func (s *Store) MutateKYCRequests(ctx context.Context, fn func([]domain.KYCRequest) ([]domain.KYCRequest, error)) ([]domain.KYCRequest, error) {
	return mutate(ctx, s, kycCollection, fn)
}

type collection[T any] struct {
	key      string
	encode   func(T) ([]byte, error)
	decode   func([]byte) (T, error)
	validate func(T) error
	seed     func() (T, error)
}

func read[T any](ctx context.Context, s *Store, c collection[T]) (T, error) {
	if err := s.ready(ctx); err != nil {
		var zero T
		return zero, err
	}
	unlock := s.locks.lock(c.key)
	defer unlock()

	value, _, err := load(ctx, s, c)
	return value, err
}

func mutate[T any](ctx context.Context, s *Store, c collection[T], fn func(T) (T, error)) (T, error) {
	var zero T
	if err := s.ready(ctx); err != nil {
		return zero, err
	}
	if fn == nil {
		return zero, fmt.Errorf("mutation is required")
	}
	unlock := s.locks.lock(c.key)
	defer unlock()

	current, revision, err := load(ctx, s, c)
	if err != nil {
		return zero, err
	}
	next, err := fn(current)
	if err != nil {
		return zero, err
	}
	if err := c.validate(next); err != nil {
		return zero, apperrors.Wrap(apperrors.CodeInvalidArgument, "reject invalid "+c.key, err)
	}
	body, err := c.encode(next)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", c.key, err)
	}

	doc, err := s.substrate.Put(ctx, c.key, body, revision)
	if err != nil {
		return zero, s.writeError(c.key, revision, err)
	}
	s.logger.Debug().
		Str("key", c.key).
		Uint64("revision", doc.Revision).
		Msg("document written")
	return next, nil
}

// load reads and decodes one document, seeding it when absent. Callers hold
// the key lock.
func load[T any](ctx context.Context, s *Store, c collection[T]) (T, uint64, error) {
	var zero T

	doc, err := s.substrate.Get(ctx, c.key)
	if err == nil {
		value, err := c.decode(doc.Body)
		if err != nil {
			s.logger.Error().Err(err).Str("key", c.key).Uint64("revision", doc.Revision).Msg("stored document is corrupt")
			return zero, 0, err
		}
		return value, doc.Revision, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return zero, 0, s.readError(c.key, err)
	}

	seeded, err := c.seed()
	if err != nil {
		return zero, 0, fmt.Errorf("build %s seed: %w", c.key, err)
	}
	body, err := c.encode(seeded)
	if err != nil {
		return zero, 0, fmt.Errorf("encode %s seed: %w", c.key, err)
	}
	doc, err = s.substrate.Put(ctx, c.key, body, 0)
	if err == nil {
		s.logger.Info().Str("key", c.key).Msg("seeded default document")
		return seeded, doc.Revision, nil
	}
	if !errors.Is(err, storage.ErrRevisionConflict) {
		return zero, 0, s.writeError(c.key, 0, err)
	}

	// Another process seeded first; use what it wrote.
	doc, err = s.substrate.Get(ctx, c.key)
	if err != nil {
		return zero, 0, s.readError(c.key, err)
	}
	value, err := c.decode(doc.Body)
	if err != nil {
		return zero, 0, err
	}
	return value, doc.Revision, nil
}

func (s *Store) ready(ctx context.Context) error {
	if s == nil || s.substrate == nil {
		return fmt.Errorf("store is not configured")
	}
	return ctx.Err()
}

func (s *Store) readError(key string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if errors.Is(err, storage.ErrCorruptRecord) {
		s.logger.Error().Err(err).Str("key", key).Msg("stored record is corrupt")
		return apperrors.WrapWithMetadata(apperrors.CodeCorruptState, "read "+key, map[string]string{"Kind": key}, err)
	}
	s.logger.Error().Err(err).Str("key", key).Msg("read document failed")
	return apperrors.Wrap(apperrors.CodeIOFailure, "read "+key, err)
}

func (s *Store) writeError(key string, revision uint64, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if errors.Is(err, storage.ErrRevisionConflict) {
		s.logger.Warn().Str("key", key).Uint64("revision", revision).Msg("document changed since read")
		return apperrors.WrapWithMetadata(
			apperrors.CodeConcurrentModification,
			"write "+key,
			map[string]string{"Key": key, "Revision": fmt.Sprint(revision)},
			err,
		)
	}
	s.logger.Error().Err(err).Str("key", key).Msg("write document failed")
	return apperrors.Wrap(apperrors.CodeIOFailure, "write "+key, err)
}

// keyLocks hands out one mutex per document key.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
