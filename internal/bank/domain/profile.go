package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/louisbranch/demobank/internal/platform/id"
	"github.com/shopspring/decimal"
)

// UserProfile is the demo user's account: balances, ledger history, cards and loans.
type UserProfile struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Balance      decimal.Decimal   `json:"balance"`
	Savings      decimal.Decimal   `json:"savings"`
	Status       AccountStatus     `json:"status"`
	KYCStatus    KYCStatus         `json:"kycStatus"`
	Transactions []Transaction     `json:"transactions"`
	Cards        []Card            `json:"cards"`
	Loans        []LoanApplication `json:"loans"`
}

// Transaction is one ledger entry, newest first in the profile history.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Timestamp   time.Time         `json:"timestamp"`
	Status      TransactionStatus `json:"status"`
	Reference   string            `json:"reference"`
}

// Card is a payment card attached to the profile.
type Card struct {
	ID       string   `json:"id"`
	Type     CardType `json:"type"`
	Number   string   `json:"number"`
	Expiry   string   `json:"expiry"`
	IsFrozen bool     `json:"isFrozen"`
}

// Clone returns a deep copy so callers can mutate without aliasing a snapshot.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.Transactions = slices.Clone(p.Transactions)
	out.Cards = slices.Clone(p.Cards)
	out.Loans = slices.Clone(p.Loans)
	return out
}

// TransferInput describes an outbound transfer from the profile balance.
type TransferInput struct {
	Amount    decimal.Decimal
	Recipient string
	Note      string
}

// Transfer debits the profile balance and prepends the resulting transaction.
//
// The returned profile is a new snapshot; p is left untouched, including on
// failure.
func Transfer(p UserProfile, input TransferInput, now func() time.Time, idGenerator func() (string, error)) (UserProfile, Transaction, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		return UserProfile{}, Transaction{}, invalidArgument("recipient", "is required")
	}
	if err := checkPositiveMoney("amount", input.Amount); err != nil {
		return UserProfile{}, Transaction{}, err
	}
	amount := CanonicalMoney(input.Amount)
	if amount.GreaterThan(p.Balance) {
		return UserProfile{}, Transaction{}, apperrors.WithMetadata(
			apperrors.CodeInsufficientFunds,
			fmt.Sprintf("transfer of %s exceeds balance %s", amount.StringFixed(2), p.Balance.StringFixed(2)),
			map[string]string{
				"Balance": p.Balance.StringFixed(2),
				"Amount":  amount.StringFixed(2),
			},
		)
	}

	txID, err := idGenerator()
	if err != nil {
		return UserProfile{}, Transaction{}, fmt.Errorf("generate transaction id: %w", err)
	}

	description := "Transfer to " + recipient
	if note := strings.TrimSpace(input.Note); note != "" {
		description += " - " + note
	}

	tx := Transaction{
		ID:          txID,
		Type:        TransactionDebit,
		Amount:      amount,
		Description: description,
		Timestamp:   now().UTC(),
		Status:      TransactionSuccess,
		Reference:   "TRX-" + strings.ToUpper(txID),
	}

	next := p.Clone()
	next.Balance = CanonicalMoney(p.Balance.Sub(amount))
	next.Transactions = append([]Transaction{tx}, p.Transactions...)
	return next, tx, nil
}

// ToggleCardFreeze flips the frozen flag on the card with cardID.
func ToggleCardFreeze(p UserProfile, cardID string) (UserProfile, Card, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return UserProfile{}, Card{}, invalidArgument("card id", "is required")
	}

	next := p.Clone()
	for i := range next.Cards {
		if next.Cards[i].ID == cardID {
			next.Cards[i].IsFrozen = !next.Cards[i].IsFrozen
			return next, next.Cards[i], nil
		}
	}
	return UserProfile{}, Card{}, notFound("card", cardID)
}

// ProfilePatch lists the profile fields a caller may overwrite. Nil fields
// are left unchanged.
type ProfilePatch struct {
	Name      *string          `json:"name,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Balance   *decimal.Decimal `json:"balance,omitempty"`
	Savings   *decimal.Decimal `json:"savings,omitempty"`
	Status    *AccountStatus   `json:"status,omitempty"`
	KYCStatus *KYCStatus       `json:"kycStatus,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Balance == nil &&
		p.Savings == nil && p.Status == nil && p.KYCStatus == nil
}

// ApplyProfilePatch shallow-merges patch over p and validates the result.
func ApplyProfilePatch(p UserProfile, patch ProfilePatch) (UserProfile, error) {
	next := p.Clone()
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return UserProfile{}, invalidArgument("name", "must not be empty")
		}
		next.Name = name
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if !strings.Contains(email, "@") {
			return UserProfile{}, invalidArgument("email", "must be an email address")
		}
		next.Email = email
	}
	if patch.Balance != nil {
		if err := checkNonNegativeMoney("balance", *patch.Balance); err != nil {
			return UserProfile{}, err
		}
		next.Balance = CanonicalMoney(*patch.Balance)
	}
	if patch.Savings != nil {
		if err := checkNonNegativeMoney("savings", *patch.Savings); err != nil {
			return UserProfile{}, err
		}
		next.Savings = CanonicalMoney(*patch.Savings)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return UserProfile{}, invalidArgument("status", "must be active or suspended")
		}
		next.Status = *patch.Status
	}
	if patch.KYCStatus != nil {
		if !patch.KYCStatus.Valid() {
			return UserProfile{}, invalidArgument("kycStatus", "must be verified, pending or rejected")
		}
		next.KYCStatus = *patch.KYCStatus
	}
	return next, nil
}
