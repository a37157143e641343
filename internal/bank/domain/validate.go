package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the invariants a persisted profile must hold.
func (p UserProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is empty")
	}
	if p.Balance.IsNegative() {
		return fmt.Errorf("balance %s is negative", p.Balance)
	}
	if p.Savings.IsNegative() {
		return fmt.Errorf("savings %s is negative", p.Savings)
	}
	if err := validateStoredMoney("balance", p.Balance); err != nil {
		return err
	}
	if err := validateStoredMoney("savings", p.Savings); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return fmt.Errorf("unknown account status %q", p.Status)
	}
	if !p.KYCStatus.Valid() {
		return fmt.Errorf("unknown kyc status %q", p.KYCStatus)
	}

	references := make(map[string]struct{}, len(p.Transactions))
	for _, tx := range p.Transactions {
		if err := tx.validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		if _, dup := references[tx.Reference]; dup {
			return fmt.Errorf("duplicate transaction reference %q", tx.Reference)
		}
		references[tx.Reference] = struct{}{}
	}

	cardIDs := make(map[string]struct{}, len(p.Cards))
	for _, card := range p.Cards {
		if strings.TrimSpace(card.ID) == "" {
			return errors.New("card id is empty")
		}
		if !card.Type.Valid() {
			return fmt.Errorf("card %s: unknown type %q", card.ID, card.Type)
		}
		if _, dup := cardIDs[card.ID]; dup {
			return fmt.Errorf("duplicate card id %q", card.ID)
		}
		cardIDs[card.ID] = struct{}{}
	}

	loanIDs := make(map[string]struct{}, len(p.Loans))
	for _, loan := range p.Loans {
		if strings.TrimSpace(loan.ID) == "" {
			return errors.New("loan id is empty")
		}
		if !loan.Status.Valid() {
			return fmt.Errorf("loan %s: unknown status %q", loan.ID, loan.Status)
		}
		if !loan.Amount.IsPositive() {
			return fmt.Errorf("loan %s: amount %s is not positive", loan.ID, loan.Amount)
		}
		if err := validateStoredMoney("loan "+loan.ID+" amount", loan.Amount); err != nil {
			return err
		}
		if _, dup := loanIDs[loan.ID]; dup {
			return fmt.Errorf("duplicate loan id %q", loan.ID)
		}
		loanIDs[loan.ID] = struct{}{}
	}
	return nil
}

func (t Transaction) validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("id is empty")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("unknown type %q", t.Type)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q", t.Status)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount %s is not positive", t.Amount)
	}
	if err := validateStoredMoney("amount", t.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(t.Reference) == "" {
		return errors.New("reference is empty")
	}
	return nil
}

// ValidatePosts checks the invariants a persisted post collection must hold.
func ValidatePosts(posts []BlogPost) error {
	seen := make(map[string]struct{}, len(posts))
	for _, post := range posts {
		if strings.TrimSpace(post.ID) == "" {
			return errors.New("post id is empty")
		}
		if _, dup := seen[post.ID]; dup {
			return fmt.Errorf("duplicate post id %q", post.ID)
		}
		seen[post.ID] = struct{}{}
	}
	return nil
}

// ValidateKYCRequests checks the invariants a persisted KYC queue must hold.
func ValidateKYCRequests(requests []KYCRequest) error {
	seen := make(map[string]struct{}, len(requests))
	for _, request := range requests {
		if strings.TrimSpace(request.ID) == "" {
			return errors.New("kyc request id is empty")
		}
		if !request.Status.Valid() {
			return fmt.Errorf("kyc request %s: unknown status %q", request.ID, request.Status)
		}
		if _, dup := seen[request.ID]; dup {
			return fmt.Errorf("duplicate kyc request id %q", request.ID)
		}
		seen[request.ID] = struct{}{}
	}
	return nil
}
