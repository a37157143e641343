package seed

import (
	"testing"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/shopspring/decimal"
)

func TestProfile(t *testing.T) {
	profile, err := Profile()
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.Name != "Adaeze Okafor" {
		t.Fatalf("expected Adaeze Okafor, got %q", profile.Name)
	}
	if !profile.Balance.Equal(decimal.RequireFromString("2540300.00")) {
		t.Fatalf("expected balance 2540300.00, got %s", profile.Balance)
	}
	if !profile.Savings.Equal(decimal.RequireFromString("850000.00")) {
		t.Fatalf("expected savings 850000.00, got %s", profile.Savings)
	}
	if profile.Status != domain.AccountActive || profile.KYCStatus != domain.KYCVerified {
		t.Fatalf("expected active/verified, got %s/%s", profile.Status, profile.KYCStatus)
	}
	if len(profile.Transactions) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(profile.Transactions))
	}
	for i := 1; i < len(profile.Transactions); i++ {
		if profile.Transactions[i].Timestamp.After(profile.Transactions[i-1].Timestamp) {
			t.Fatalf("expected transactions newest first, got %v before %v",
				profile.Transactions[i-1].Timestamp, profile.Transactions[i].Timestamp)
		}
	}
	if len(profile.Cards) != 2 || profile.Cards[0].IsFrozen || !profile.Cards[1].IsFrozen {
		t.Fatalf("expected active verve and frozen mastercard, got %+v", profile.Cards)
	}
	if len(profile.Loans) != 1 || profile.Loans[0].Status != domain.ReviewApproved {
		t.Fatalf("expected one approved loan, got %+v", profile.Loans)
	}
}

func TestProfileMoneyIsCanonical(t *testing.T) {
	profile, err := Profile()
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	amounts := []decimal.Decimal{profile.Balance, profile.Savings}
	for _, tx := range profile.Transactions {
		amounts = append(amounts, tx.Amount)
	}
	for _, loan := range profile.Loans {
		amounts = append(amounts, loan.Amount)
	}
	for _, amount := range amounts {
		if amount.Exponent() != -domain.MoneyPlaces {
			t.Fatalf("expected %s in kobo form, got exponent %d", amount, amount.Exponent())
		}
	}
}

func TestProfileReturnsIndependentCopies(t *testing.T) {
	first, err := Profile()
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	first.Cards[0].IsFrozen = true

	second, err := Profile()
	if err != nil {
		t.Fatalf("load profile again: %v", err)
	}
	if second.Cards[0].IsFrozen {
		t.Fatal("expected seed profile to be unaffected by caller mutation")
	}
}

func TestPosts(t *testing.T) {
	posts, err := Posts()
	if err != nil {
		t.Fatalf("load posts: %v", err)
	}
	if len(posts) != 6 {
		t.Fatalf("expected 6 posts, got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].Date.After(posts[i-1].Date) {
			t.Fatalf("expected posts newest first at index %d", i)
		}
	}
	for _, post := range posts {
		if post.Author != domain.EditorialAuthor {
			t.Fatalf("expected editorial author, got %q", post.Author)
		}
	}
}

func TestKYCRequests(t *testing.T) {
	requests, err := KYCRequests()
	if err != nil {
		t.Fatalf("load kyc requests: %v", err)
	}
	if len(requests) != 2 || requests[0].ID != "1" || requests[1].ID != "2" {
		t.Fatalf("expected seed ids 1 and 2, got %+v", requests)
	}
	for _, request := range requests {
		if request.Status != domain.ReviewPending {
			t.Fatalf("expected pending seed request, got %s", request.Status)
		}
	}
}

func TestParseRejectsInvalidDataset(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed yaml", raw: "profile: [unterminated"},
		{name: "bad balance", raw: "profile:\n  id: u\n  balance: lots\n  savings: \"0\"\n"},
		{name: "invalid status", raw: "profile:\n  id: u\n  balance: \"1\"\n  savings: \"0\"\n  status: closed\n  kyc_status: verified\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parse([]byte(tc.raw)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}
