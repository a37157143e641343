package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func fixedID(value string) func() (string, error) {
	return func() (string, error) { return value, nil }
}

func failingID() (string, error) { return "", errors.New("entropy exhausted") }

func amount(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse amount %q: %v", value, err)
	}
	return d
}

func sampleProfile(t *testing.T) UserProfile {
	t.Helper()
	return UserProfile{
		ID:        "usr-1",
		Name:      "Adaeze Okafor",
		Email:     "adaeze.okafor@demobank.ng",
		Balance:   amount(t, "2540300.00"),
		Savings:   amount(t, "850000.00"),
		Status:    AccountActive,
		KYCStatus: KYCVerified,
		Transactions: []Transaction{
			{ID: "tx-1", Type: TransactionCredit, Amount: amount(t, "450000"), Description: "Salary", Timestamp: testNow.Add(-time.Hour), Status: TransactionSuccess, Reference: "TRX-SEED1"},
		},
		Cards: []Card{
			{ID: "card-1", Type: CardVerve, Number: "**** 4321", Expiry: "08/28"},
			{ID: "card-2", Type: CardMastercard, Number: "**** 8765", Expiry: "11/27", IsFrozen: true},
		},
		Loans: []LoanApplication{
			{ID: "LN-2025-SEED0001", Applicant: "Adaeze Okafor", Amount: amount(t, "500000"), Type: "personal", Status: ReviewApproved, Date: testNow.AddDate(0, -3, 0), Score: 712},
		},
	}
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	if got := apperrors.GetCode(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}
