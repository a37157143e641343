package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/platform/id"
	"github.com/shopspring/decimal"
)

// PlaceholderCreditScore is assigned to every new application until a real
// scoring model exists.
const PlaceholderCreditScore = 650

const loanDisambiguatorLength = 8

// LoanApplication is one loan request on the profile.
type LoanApplication struct {
	ID        string          `json:"id"`
	Applicant string          `json:"applicant"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Purpose   string          `json:"purpose"`
	Status    ReviewStatus    `json:"status"`
	Date      time.Time       `json:"date"`
	Score     int             `json:"score"`
}

// LoanInput describes a new loan application.
type LoanInput struct {
	Amount  decimal.Decimal
	Type    string
	Purpose string
}

// ApplyForLoan prepends a pending application to the profile.
func ApplyForLoan(p UserProfile, input LoanInput, now func() time.Time, idGenerator func() (string, error)) (UserProfile, LoanApplication, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if err := checkPositiveMoney("amount", input.Amount); err != nil {
		return UserProfile{}, LoanApplication{}, err
	}
	loanType := strings.TrimSpace(input.Type)
	if loanType == "" {
		return UserProfile{}, LoanApplication{}, invalidArgument("type", "is required")
	}

	raw, err := idGenerator()
	if err != nil {
		return UserProfile{}, LoanApplication{}, fmt.Errorf("generate loan id: %w", err)
	}

	appliedAt := now().UTC()
	loan := LoanApplication{
		ID:        fmt.Sprintf("LN-%d-%s", appliedAt.Year(), id.Short(raw, loanDisambiguatorLength)),
		Applicant: p.Name,
		Amount:    CanonicalMoney(input.Amount),
		Type:      loanType,
		Purpose:   strings.TrimSpace(input.Purpose),
		Status:    ReviewPending,
		Date:      appliedAt,
		Score:     PlaceholderCreditScore,
	}

	next := p.Clone()
	next.Loans = append([]LoanApplication{loan}, p.Loans...)
	return next, loan, nil
}

// DecideLoan moves a pending loan to approved or rejected.
func DecideLoan(p UserProfile, loanID string, status ReviewStatus) (UserProfile, LoanApplication, error) {
	loanID = strings.TrimSpace(loanID)
	next := p.Clone()
	for i := range next.Loans {
		if next.Loans[i].ID != loanID {
			continue
		}
		if err := checkReviewTransition("loan", loanID, next.Loans[i].Status, status); err != nil {
			return UserProfile{}, LoanApplication{}, err
		}
		next.Loans[i].Status = status
		return next, next.Loans[i], nil
	}
	return UserProfile{}, LoanApplication{}, notFound("loan", loanID)
}
