package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/demobank/internal/platform/id"
)

// KYCRequest is one identity verification submission in the compliance queue.
type KYCRequest struct {
	ID      string       `json:"id"`
	User    string       `json:"user"`
	Email   string       `json:"email"`
	Type    string       `json:"type"`
	Status  ReviewStatus `json:"status"`
	Date    time.Time    `json:"date"`
	Details string       `json:"details"`
}

// KYCInput describes a new verification submission.
type KYCInput struct {
	User    string
	Email   string
	Type    string
	Details string
}

// SubmitKYC prepends a pending request to the queue.
func SubmitKYC(queue []KYCRequest, input KYCInput, now func() time.Time, idGenerator func() (string, error)) ([]KYCRequest, KYCRequest, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	user := strings.TrimSpace(input.User)
	if user == "" {
		return nil, KYCRequest{}, invalidArgument("user", "is required")
	}
	email := strings.TrimSpace(input.Email)
	if !strings.Contains(email, "@") {
		return nil, KYCRequest{}, invalidArgument("email", "must be an email address")
	}
	kycType := strings.TrimSpace(input.Type)
	if kycType == "" {
		return nil, KYCRequest{}, invalidArgument("type", "is required")
	}

	requestID, err := idGenerator()
	if err != nil {
		return nil, KYCRequest{}, fmt.Errorf("generate kyc id: %w", err)
	}

	request := KYCRequest{
		ID:      requestID,
		User:    user,
		Email:   email,
		Type:    kycType,
		Status:  ReviewPending,
		Date:    now().UTC(),
		Details: strings.TrimSpace(input.Details),
	}
	next := make([]KYCRequest, 0, len(queue)+1)
	next = append(next, request)
	next = append(next, queue...)
	return next, request, nil
}

// DecideKYC moves a pending request to approved or rejected.
func DecideKYC(queue []KYCRequest, requestID string, status ReviewStatus) ([]KYCRequest, KYCRequest, error) {
	requestID = strings.TrimSpace(requestID)
	next := append([]KYCRequest(nil), queue...)
	for i := range next {
		if next[i].ID != requestID {
			continue
		}
		if err := checkReviewTransition("kyc request", requestID, next[i].Status, status); err != nil {
			return nil, KYCRequest{}, err
		}
		next[i].Status = status
		return next, next[i], nil
	}
	return nil, KYCRequest{}, notFound("kyc request", requestID)
}
