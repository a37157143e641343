package service

import (
	"context"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/platform/filter"
	"go.opentelemetry.io/otel/attribute"
)

// TransactionFilterFields are the fields a transaction filter may reference.
var TransactionFilterFields = []string{"type", "status", "reference", "description"}

// Ledger owns the balance, the transaction history and money movement.
type Ledger struct {
	base
	profiles ProfileStore
}

// NewLedger builds a ledger over profiles.
func NewLedger(profiles ProfileStore, opts ...Option) *Ledger {
	return &Ledger{base: newBase(opts), profiles: profiles}
}

// Profile returns the current profile snapshot.
func (l *Ledger) Profile(ctx context.Context) (profile domain.UserProfile, err error) {
	ctx, finish := l.observe(ctx, "ledger.profile")
	defer func() { finish(err) }()

	return l.profiles.Profile(ctx)
}

// Transfer debits amount from the balance and records the transaction.
func (l *Ledger) Transfer(ctx context.Context, input domain.TransferInput) (tx domain.Transaction, err error) {
	ctx, finish := l.observe(ctx, "ledger.transfer",
		attribute.String("demobank.amount", input.Amount.String()),
	)
	defer func() { finish(err) }()

	profile, err := l.profiles.MutateProfile(ctx, func(p domain.UserProfile) (domain.UserProfile, error) {
		next, created, err := domain.Transfer(p, input, l.now, l.idGenerator)
		if err != nil {
			return domain.UserProfile{}, err
		}
		tx = created
		return next, nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	l.logger.Info().
		Str("event", "transfer").
		Str("reference", tx.Reference).
		Str("amount", tx.Amount.StringFixed(2)).
		Str("balance", profile.Balance.StringFixed(2)).
		Msg("transfer committed")
	return tx, nil
}

// UpdateProfile merges patch over the profile and persists it. An empty
// patch returns the current profile without writing.
func (l *Ledger) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (profile domain.UserProfile, err error) {
	ctx, finish := l.observe(ctx, "ledger.update_profile")
	defer func() { finish(err) }()

	if patch.Empty() {
		return l.profiles.Profile(ctx)
	}
	profile, err = l.profiles.MutateProfile(ctx, func(p domain.UserProfile) (domain.UserProfile, error) {
		return domain.ApplyProfilePatch(p, patch)
	})
	if err != nil {
		return domain.UserProfile{}, err
	}

	l.logger.Info().Str("event", "profile_updated").Str("profile_id", profile.ID).Msg("profile updated")
	return profile, nil
}

// Transactions returns the history, newest first, narrowed by an AIP-160
// filter over TransactionFilterFields. An empty filter returns everything.
func (l *Ledger) Transactions(ctx context.Context, expression string) (txs []domain.Transaction, err error) {
	ctx, finish := l.observe(ctx, "ledger.transactions")
	defer func() { finish(err) }()

	matcher, err := compileFilter(expression, TransactionFilterFields...)
	if err != nil {
		return nil, err
	}
	profile, err := l.profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, 0, len(profile.Transactions))
	for _, tx := range profile.Transactions {
		if matcher.Match(filter.Record{
			"type":        string(tx.Type),
			"status":      string(tx.Status),
			"reference":   tx.Reference,
			"description": tx.Description,
		}) {
			out = append(out, tx)
		}
	}
	return out, nil
}
