package domain

import (
	"reflect"
	"testing"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

func TestTransferRejectsSubKoboAmounts(t *testing.T) {
	profile := sampleProfile(t)
	for _, value := range []string{"0.001", "0.0000001", "10.505"} {
		_, _, err := Transfer(profile, TransferInput{Amount: amount(t, value), Recipient: "X"}, fixedNow, fixedID("id"))
		assertCode(t, err, apperrors.CodeInvalidArgument)
		if got := apperrors.GetMetadata(err)["Field"]; got != "amount" {
			t.Fatalf("%s: expected amount field, got %q", value, got)
		}
	}
	if !profile.Balance.Equal(amount(t, "2540300")) {
		t.Fatalf("expected balance untouched, got %s", profile.Balance)
	}
}

func TestTransferAcceptsTrailingZeros(t *testing.T) {
	next, tx, err := Transfer(sampleProfile(t), TransferInput{Amount: amount(t, "0.010"), Recipient: "X"}, fixedNow, fixedID("id"))
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tx.Amount.String() != "0.01" {
		t.Fatalf("expected amount 0.01, got %s", tx.Amount)
	}
	if next.Balance.StringFixed(2) != "2540299.99" {
		t.Fatalf("expected balance 2540299.99, got %s", next.Balance)
	}
}

func TestApplyForLoanRejectsSubKoboAmount(t *testing.T) {
	_, _, err := ApplyForLoan(sampleProfile(t), LoanInput{Amount: amount(t, "0.001"), Type: "Personal"}, fixedNow, fixedID("abcdefgh"))
	assertCode(t, err, apperrors.CodeInvalidArgument)
}

func TestApplyProfilePatchRejectsSubKobo(t *testing.T) {
	balance := amount(t, "100.001")
	_, err := ApplyProfilePatch(sampleProfile(t), ProfilePatch{Balance: &balance})
	assertCode(t, err, apperrors.CodeInvalidArgument)

	savings := amount(t, "0.005")
	_, err = ApplyProfilePatch(sampleProfile(t), ProfilePatch{Savings: &savings})
	assertCode(t, err, apperrors.CodeInvalidArgument)
}

func TestCanonicalMoneyIsRepresentationIndependent(t *testing.T) {
	tests := [][2]string{
		{"2540300", "2540300.00"},
		{"0", "0.000"},
		{"0.1", "0.10"},
		{"-5", "-5.00"},
	}
	for _, tc := range tests {
		a := CanonicalMoney(amount(t, tc[0]))
		b := CanonicalMoney(amount(t, tc[1]))
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("expected %s and %s to share one representation, got %#v and %#v", tc[0], tc[1], a, b)
		}
	}
}

func TestWithCanonicalMoneyLeavesInputAlone(t *testing.T) {
	profile := sampleProfile(t)
	profile.Balance = amount(t, "12")
	out := profile.WithCanonicalMoney()
	if profile.Balance.Exponent() != 0 {
		t.Fatalf("expected input exponent 0, got %d", profile.Balance.Exponent())
	}
	if out.Balance.Exponent() != -MoneyPlaces || out.Transactions[0].Amount.Exponent() != -MoneyPlaces {
		t.Fatalf("expected kobo exponent on every amount, got %+v", out)
	}
}

func TestValidateRejectsSubKoboStoredAmounts(t *testing.T) {
	profile := sampleProfile(t)
	profile.Transactions[0].Amount = amount(t, "1.001")
	if err := profile.Validate(); err == nil {
		t.Fatal("expected sub-kobo transaction amount to fail validation")
	}

	profile = sampleProfile(t)
	profile.Savings = amount(t, "0.0001")
	if err := profile.Validate(); err == nil {
		t.Fatal("expected sub-kobo savings to fail validation")
	}
}
