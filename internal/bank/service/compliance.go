package service

import (
	"context"

	"github.com/louisbranch/demobank/internal/bank/domain"
	"github.com/louisbranch/demobank/internal/platform/filter"
	"go.opentelemetry.io/otel/attribute"
)

// KYCFilterFields are the fields a compliance queue filter may reference.
var KYCFilterFields = []string{"status", "type", "email", "user"}

// ComplianceQueue owns identity verification requests.
type ComplianceQueue struct {
	base
	requests KYCStore
}

// NewComplianceQueue builds a compliance queue over requests.
func NewComplianceQueue(requests KYCStore, opts ...Option) *ComplianceQueue {
	return &ComplianceQueue{base: newBase(opts), requests: requests}
}

// List returns every request, newest submission first. Seed requests live in
// the same persisted collection as submissions.
func (q *ComplianceQueue) List(ctx context.Context) (requests []domain.KYCRequest, err error) {
	ctx, finish := q.observe(ctx, "kyc.list")
	defer func() { finish(err) }()

	return q.requests.KYCRequests(ctx)
}

// Search returns requests matching an AIP-160 filter over KYCFilterFields.
func (q *ComplianceQueue) Search(ctx context.Context, expression string) (requests []domain.KYCRequest, err error) {
	ctx, finish := q.observe(ctx, "kyc.search")
	defer func() { finish(err) }()

	matcher, err := compileFilter(expression, KYCFilterFields...)
	if err != nil {
		return nil, err
	}
	all, err := q.requests.KYCRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.KYCRequest, 0, len(all))
	for _, request := range all {
		if matcher.Match(filter.Record{
			"status": string(request.Status),
			"type":   request.Type,
			"email":  request.Email,
			"user":   request.User,
		}) {
			out = append(out, request)
		}
	}
	return out, nil
}

// Submit queues a new pending request.
func (q *ComplianceQueue) Submit(ctx context.Context, input domain.KYCInput) (request domain.KYCRequest, err error) {
	ctx, finish := q.observe(ctx, "kyc.submit", attribute.String("demobank.kyc_type", input.Type))
	defer func() { finish(err) }()

	_, err = q.requests.MutateKYCRequests(ctx, func(queue []domain.KYCRequest) ([]domain.KYCRequest, error) {
		next, created, err := domain.SubmitKYC(queue, input, q.now, q.idGenerator)
		if err != nil {
			return nil, err
		}
		request = created
		return next, nil
	})
	if err != nil {
		return domain.KYCRequest{}, err
	}

	q.logger.Info().Str("event", "kyc_submitted").Str("kyc_id", request.ID).Msg("kyc request queued")
	return request, nil
}

// UpdateStatus approves or rejects a pending request.
func (q *ComplianceQueue) UpdateStatus(ctx context.Context, requestID string, status domain.ReviewStatus) (request domain.KYCRequest, err error) {
	ctx, finish := q.observe(ctx, "kyc.update_status",
		attribute.String("demobank.kyc_id", requestID),
		attribute.String("demobank.status", string(status)),
	)
	defer func() { finish(err) }()

	_, err = q.requests.MutateKYCRequests(ctx, func(queue []domain.KYCRequest) ([]domain.KYCRequest, error) {
		next, decided, err := domain.DecideKYC(queue, requestID, status)
		if err != nil {
			return nil, err
		}
		request = decided
		return next, nil
	})
	if err != nil {
		return domain.KYCRequest{}, err
	}

	q.logger.Info().Str("event", "kyc_decided").Str("kyc_id", request.ID).Str("status", string(request.Status)).Msg("kyc status updated")
	return request, nil
}
