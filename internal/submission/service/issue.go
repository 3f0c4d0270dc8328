package service

import (
	"context"

	"coverflow/internal/audit"
	"coverflow/internal/insurer/mapper"
	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
	"coverflow/pkg/domainerrors"
)

// Issue converts the registered offer into a policy. The submission moves to
// sent when the issuance request is accepted; insurer-confirmed statuses
// (issued, accepted) arrive through Sync.
func (s *Service) Issue(ctx context.Context, submissionID, paymentMethodCode string) (*models.Submission, error) {
	sub, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if sub.ExternalOfferID == "" {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "issue requires a calculated offer id")
	}
	if sub.Status != models.StatusRegistered {
		return nil, domainerrors.Newf(domainerrors.CodeInvalidState,
			"issue not allowed from status %q", sub.Status)
	}
	if paymentMethodCode == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "payment method code is required")
	}

	req := wire.IssueRequest{OfferID: sub.ExternalOfferID, PaymentMethodCode: paymentMethodCode}

	resp, callErr := s.insurer.IssuePolicy(ctx, req)
	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpIssue,
		Request:      req,
		Response:     resp,
		ErrorCode:    insurerErrorCode(callErr),
		Err:          callErr,
	})
	if callErr != nil {
		s.markError(ctx, sub, callErr)
		return nil, wrapInsurerErr(callErr)
	}

	projection := mapper.ProjectIssue(resp)
	sub.ExternalPolicyID = projection.PolicyID
	sub.ExternalPolicyNumber = projection.PolicyNumber
	sub.PolicyStatusCode = projection.PolicyStatusCode
	sub.ErrorMessage = ""
	sub.LastRequest = jsonPayload(req)
	sub.LastResponse = jsonPayload(resp)
	sentAt := s.now()
	sub.SentAt = &sentAt

	if err := s.transition(ctx, sub, models.StatusSent); err != nil {
		return nil, err
	}
	return sub, nil
}
