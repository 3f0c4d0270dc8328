package service

import (
	"context"
	"time"

	"coverflow/internal/audit"
	"coverflow/internal/insurer/wire"
	"coverflow/pkg/domainerrors"
)

// PaymentParams describe a payment event to forward to the insurer.
type PaymentParams struct {
	Amount   float64
	Currency string
	PaidAt   time.Time
}

// NotifyPayment informs the insurer that a payment occurred. Side-effect-only:
// the submission status does not change. Failures are audited and re-thrown;
// the caller decides whether to retry.
func (s *Service) NotifyPayment(ctx context.Context, submissionID string, params PaymentParams) error {
	sub, err := s.Get(ctx, submissionID)
	if err != nil {
		return err
	}

	if sub.ExternalPolicyNumber == "" {
		return domainerrors.New(domainerrors.CodeInvalidState, "payment notification requires an external policy number")
	}
	if params.Currency == "" {
		params.Currency = "PLN"
	}
	if params.PaidAt.IsZero() {
		params.PaidAt = s.now()
	}

	req := wire.PaymentNotification{
		PolicyNumber: sub.ExternalPolicyNumber,
		Amount:       params.Amount,
		Currency:     params.Currency,
		PaidAt:       params.PaidAt.Format(time.RFC3339),
	}

	resp, callErr := s.insurer.NotifyPayment(ctx, req)
	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpNotifyPayment,
		Request:      req,
		Response:     resp,
		ErrorCode:    insurerErrorCode(callErr),
		Err:          callErr,
	})
	if callErr != nil {
		return wrapInsurerErr(callErr)
	}
	return nil
}
