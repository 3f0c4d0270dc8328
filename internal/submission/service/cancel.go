package service

import (
	"context"

	"coverflow/internal/audit"
	"coverflow/internal/submission/models"
	"coverflow/pkg/domainerrors"
)

// cancelNote is the fixed audit note for local cancellations. No insurer
// cancellation endpoint is called; whether the insurer API supports one is an
// open question, so the status flip stays local.
const cancelNote = "cancelled locally, no insurer call made"

// Cancel moves the submission to cancelled. Only permitted from sent,
// registered or issued; anything else fails with a state error naming the
// current status.
func (s *Service) Cancel(ctx context.Context, submissionID string) (*models.Submission, error) {
	sub, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if !sub.Status.Cancellable() {
		return nil, domainerrors.Newf(domainerrors.CodeInvalidState,
			"cancel not allowed from status %q", sub.Status)
	}

	if err := s.transition(ctx, sub, models.StatusCancelled); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpCancel,
		Request:      map[string]string{"note": cancelNote},
	})
	return sub, nil
}
