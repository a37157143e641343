package domain

import (
	"testing"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

func TestIsReviewTransitionAllowed(t *testing.T) {
	tests := []struct {
		from ReviewStatus
		to   ReviewStatus
		want bool
	}{
		{ReviewPending, ReviewApproved, true},
		{ReviewPending, ReviewRejected, true},
		{ReviewPending, ReviewPending, false},
		{ReviewApproved, ReviewRejected, false},
		{ReviewApproved, ReviewApproved, false},
		{ReviewRejected, ReviewApproved, false},
		{ReviewRejected, ReviewPending, false},
		{ReviewStatus("unknown"), ReviewApproved, false},
	}
	for _, tc := range tests {
		if got := IsReviewTransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestParseReviewStatus(t *testing.T) {
	status, ok := ParseReviewStatus("  Approved ")
	if !ok || status != ReviewApproved {
		t.Fatalf("expected approved, got %q (%v)", status, ok)
	}
	if _, ok := ParseReviewStatus("cancelled"); ok {
		t.Fatal("expected cancelled to be rejected")
	}
}

func TestReviewStatusTerminal(t *testing.T) {
	if ReviewPending.Terminal() {
		t.Fatal("expected pending to be non-terminal")
	}
	if !ReviewApproved.Terminal() || !ReviewRejected.Terminal() {
		t.Fatal("expected approved and rejected to be terminal")
	}
}

func TestCheckReviewTransition(t *testing.T) {
	if err := checkReviewTransition("loan", "LN-1", ReviewPending, ReviewApproved); err != nil {
		t.Fatalf("expected allowed transition, got %v", err)
	}

	err := checkReviewTransition("loan", "LN-1", ReviewPending, ReviewPending)
	assertCode(t, err, apperrors.CodeInvalidArgument)

	err = checkReviewTransition("loan", "LN-1", ReviewApproved, ReviewRejected)
	assertCode(t, err, apperrors.CodeInvalidTransition)
	meta := apperrors.GetMetadata(err)
	if meta["FromStatus"] != "approved" || meta["ToStatus"] != "rejected" {
		t.Fatalf("expected transition metadata, got %v", meta)
	}
}

func TestEnumValidity(t *testing.T) {
	if !AccountActive.Valid() || AccountStatus("closed").Valid() {
		t.Fatal("unexpected account status validity")
	}
	if !KYCPending.Valid() || KYCStatus("unknown").Valid() {
		t.Fatal("unexpected kyc status validity")
	}
	if !TransactionDebit.Valid() || TransactionType("refund").Valid() {
		t.Fatal("unexpected transaction type validity")
	}
	if !TransactionFailed.Valid() || TransactionStatus("reversed").Valid() {
		t.Fatal("unexpected transaction status validity")
	}
	if !CardVisa.Valid() || CardType("amex").Valid() {
		t.Fatal("unexpected card type validity")
	}
}
