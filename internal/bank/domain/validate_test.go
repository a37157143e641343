package domain

import (
	"testing"
	"time"
)

func TestProfileValidate(t *testing.T) {
	if err := sampleProfile(t).Validate(); err != nil {
		t.Fatalf("expected sample profile to validate, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *UserProfile)
	}{
		{name: "empty id", mutate: func(p *UserProfile) { p.ID = "" }},
		{name: "negative balance", mutate: func(p *UserProfile) { p.Balance = amount(t, "-0.01") }},
		{name: "negative savings", mutate: func(p *UserProfile) { p.Savings = amount(t, "-1") }},
		{name: "unknown status", mutate: func(p *UserProfile) { p.Status = "closed" }},
		{name: "unknown kyc status", mutate: func(p *UserProfile) { p.KYCStatus = "" }},
		{name: "zero transaction amount", mutate: func(p *UserProfile) { p.Transactions[0].Amount = amount(t, "0") }},
		{name: "unknown transaction type", mutate: func(p *UserProfile) { p.Transactions[0].Type = "refund" }},
		{name: "duplicate reference", mutate: func(p *UserProfile) {
			p.Transactions = append(p.Transactions, Transaction{
				ID: "tx-2", Type: TransactionDebit, Amount: amount(t, "1"), Status: TransactionSuccess,
				Reference: p.Transactions[0].Reference, Timestamp: time.Now(),
			})
		}},
		{name: "duplicate card id", mutate: func(p *UserProfile) { p.Cards[1].ID = p.Cards[0].ID }},
		{name: "unknown card type", mutate: func(p *UserProfile) { p.Cards[0].Type = "amex" }},
		{name: "unknown loan status", mutate: func(p *UserProfile) { p.Loans[0].Status = "closed" }},
		{name: "duplicate loan id", mutate: func(p *UserProfile) { p.Loans = append(p.Loans, p.Loans[0]) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			profile := sampleProfile(t)
			tc.mutate(&profile)
			if err := profile.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidatePosts(t *testing.T) {
	if err := ValidatePosts([]BlogPost{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatalf("expected valid posts, got %v", err)
	}
	if err := ValidatePosts([]BlogPost{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if err := ValidatePosts([]BlogPost{{ID: ""}}); err == nil {
		t.Fatal("expected empty id error")
	}
}

func TestValidateKYCRequests(t *testing.T) {
	if err := ValidateKYCRequests(seedQueue()); err != nil {
		t.Fatalf("expected valid queue, got %v", err)
	}
	dup := append(seedQueue(), seedQueue()[0])
	if err := ValidateKYCRequests(dup); err == nil {
		t.Fatal("expected duplicate id error")
	}
	bad := seedQueue()
	bad[0].Status = "escalated"
	if err := ValidateKYCRequests(bad); err == nil {
		t.Fatal("expected unknown status error")
	}
}
