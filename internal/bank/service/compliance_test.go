package service

import (
	"context"
	"testing"

	"github.com/louisbranch/demobank/internal/bank/domain"
	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

func TestKYCListSeedsThenSubmitFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	initial, err := h.bank.Compliance.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(initial) != 2 || initial[0].ID != "1" || initial[1].ID != "2" {
		t.Fatalf("expected seed ids 1 and 2, got %+v", initial)
	}

	submitted, err := h.bank.Compliance.Submit(ctx, domain.KYCInput{
		User:    "Tunde Bakare",
		Email:   "tunde.bakare@example.ng",
		Type:    "NIN verification",
		Details: "NIN slip attached",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.Status != domain.ReviewPending || !submitted.Date.Equal(testNow) {
		t.Fatalf("unexpected submission %+v", submitted)
	}

	after, err := h.bank.Compliance.List(ctx)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 3 || after[0].ID != submitted.ID || after[1].ID != "1" || after[2].ID != "2" {
		t.Fatalf("expected submission first then seeds, got %+v", after)
	}
}

func TestKYCSeedDecisionPersists(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	decided, err := h.bank.Compliance.UpdateStatus(ctx, "1", domain.ReviewApproved)
	if err != nil {
		t.Fatalf("approve seed: %v", err)
	}
	if decided.Status != domain.ReviewApproved {
		t.Fatalf("expected approved, got %s", decided.Status)
	}

	list, err := h.bank.Compliance.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].ID != "1" || list[0].Status != domain.ReviewApproved {
		t.Fatalf("expected seed decision to persist, got %+v", list[0])
	}

	_, err = h.bank.Compliance.UpdateStatus(ctx, "1", domain.ReviewRejected)
	assertCode(t, err, apperrors.CodeInvalidTransition)
}

func TestKYCUpdateStatusUnknownID(t *testing.T) {
	h := newHarness(t)
	_, err := h.bank.Compliance.UpdateStatus(context.Background(), "999", domain.ReviewApproved)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestKYCSearch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.bank.Compliance.UpdateStatus(ctx, "2", domain.ReviewRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}

	pending, err := h.bank.Compliance.Search(ctx, `status = "pending"`)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "1" {
		t.Fatalf("expected only request 1 pending, got %+v", pending)
	}

	byUser, err := h.bank.Compliance.Search(ctx, `user:"funke"`)
	if err != nil {
		t.Fatalf("search by user: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != "2" {
		t.Fatalf("expected Funke's request, got %+v", byUser)
	}
}

func TestKYCSubmitRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	_, err := h.bank.Compliance.Submit(context.Background(), domain.KYCInput{User: "A", Email: "no-at-sign", Type: "bvn"})
	assertCode(t, err, apperrors.CodeInvalidArgument)
}
