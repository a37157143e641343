package service

import (
	"context"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"go.opentelemetry.io/otel/attribute"
)

// LoanBook owns loan applications and their review lifecycle.
type LoanBook struct {
	base
	profiles ProfileStore
}

// NewLoanBook builds a loan book over profiles.
func NewLoanBook(profiles ProfileStore, opts ...Option) *LoanBook {
	return &LoanBook{base: newBase(opts), profiles: profiles}
}

// Loans lists applications, newest first.
func (b *LoanBook) Loans(ctx context.Context) (loans []domain.LoanApplication, err error) {
	ctx, finish := b.observe(ctx, "loans.list")
	defer func() { finish(err) }()

	profile, err := b.profiles.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return profile.Loans, nil
}

// Apply records a new pending application.
func (b *LoanBook) Apply(ctx context.Context, input domain.LoanInput) (loan domain.LoanApplication, err error) {
	ctx, finish := b.observe(ctx, "loans.apply",
		attribute.String("demobank.amount", input.Amount.String()),
		attribute.String("demobank.loan_type", input.Type),
	)
	defer func() { finish(err) }()

	_, err = b.profiles.MutateProfile(ctx, func(p domain.UserProfile) (domain.UserProfile, error) {
		next, created, err := domain.ApplyForLoan(p, input, b.now, b.idGenerator)
		if err != nil {
			return domain.UserProfile{}, err
		}
		loan = created
		return next, nil
	})
	if err != nil {
		return domain.LoanApplication{}, err
	}

	b.logger.Info().Str("event", "loan_applied").Str("loan_id", loan.ID).Str("amount", loan.Amount.StringFixed(2)).Msg("loan application recorded")
	return loan, nil
}

// UpdateStatus approves or rejects a pending application.
func (b *LoanBook) UpdateStatus(ctx context.Context, loanID string, status domain.ReviewStatus) (loan domain.LoanApplication, err error) {
	ctx, finish := b.observe(ctx, "loans.update_status",
		attribute.String("demobank.loan_id", loanID),
		attribute.String("demobank.status", string(status)),
	)
	defer func() { finish(err) }()

	_, err = b.profiles.MutateProfile(ctx, func(p domain.UserProfile) (domain.UserProfile, error) {
		next, decided, err := domain.DecideLoan(p, loanID, status)
		if err != nil {
			return domain.UserProfile{}, err
		}
		loan = decided
		return next, nil
	})
	if err != nil {
		return domain.LoanApplication{}, err
	}

	b.logger.Info().Str("event", "loan_decided").Str("loan_id", loan.ID).Str("status", string(loan.Status)).Msg("loan status updated")
	return loan, nil
}
