package domain

import (
	"strings"

	apperrors "github.com/louisbranch/demobank/internal/platform/errors"
)

// ReviewStatus is the lifecycle label shared by loans and KYC requests.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed from s.
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// ParseReviewStatus canonicalizes a caller supplied status label.
func ParseReviewStatus(value string) (ReviewStatus, bool) {
	status := ReviewStatus(strings.ToLower(strings.TrimSpace(value)))
	return status, status.Valid()
}

// IsReviewTransitionAllowed reports whether a review status transition is permitted.
func IsReviewTransitionAllowed(from, to ReviewStatus) bool {
	return from == ReviewPending && to.Terminal()
}

// checkReviewTransition validates a decision target and the transition into it.
func checkReviewTransition(entity, id string, from, to ReviewStatus) error {
	if !to.Terminal() {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidArgument,
			"review decision must be approved or rejected",
			map[string]string{"Field": "status", "Reason": "must be approved or rejected"},
		)
	}
	if !IsReviewTransitionAllowed(from, to) {
		return apperrors.WithMetadata(
			apperrors.CodeInvalidTransition,
			entity+" "+id+" cannot move from "+string(from)+" to "+string(to),
			map[string]string{
				"Entity":     entity,
				"ID":         id,
				"FromStatus": string(from),
				"ToStatus":   string(to),
			},
		)
	}
	return nil
}

// AccountStatus is the standing of the demo user's account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// Valid reports whether s is a known account status.
func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountSuspended
}

// KYCStatus is the identity verification standing of the profile.
type KYCStatus string

const (
	KYCVerified KYCStatus = "verified"
	KYCPending  KYCStatus = "pending"
	KYCRejected KYCStatus = "rejected"
)

// Valid reports whether s is a known KYC status.
func (s KYCStatus) Valid() bool {
	switch s {
	case KYCVerified, KYCPending, KYCRejected:
		return true
	default:
		return false
	}
}

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionPending TransactionStatus = "pending"
	TransactionFailed  TransactionStatus = "failed"
)

// Valid reports whether s is a known transaction status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionSuccess, TransactionPending, TransactionFailed:
		return true
	default:
		return false
	}
}

// CardType is the card scheme.
type CardType string

const (
	CardVerve      CardType = "verve"
	CardMastercard CardType = "mastercard"
	CardVisa       CardType = "visa"
)

// Valid reports whether t is a known card scheme.
func (t CardType) Valid() bool {
	switch t {
	case CardVerve, CardMastercard, CardVisa:
		return true
	default:
		return false
	}
}

func invalidArgument(field, reason string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidArgument,
		field+" "+reason,
		map[string]string{"Field": field, "Reason": reason},
	)
}

func notFound(entity, id string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		entity+" "+id+" not found",
		map[string]string{"Entity": entity, "ID": id},
	)
}
