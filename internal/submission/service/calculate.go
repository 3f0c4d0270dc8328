package service

import (
	"context"

	"coverflow/internal/audit"
	"coverflow/internal/insurer/mapper"
	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
	"coverflow/internal/submission/validate"
	"coverflow/pkg/domainerrors"
)

// Calculate prices an offer for the submission. Allowed from pending or error.
// Participants are validated and the trip must carry both dates before any
// network call is made. On success the returned offer id is stored and the
// submission moves to calculating; on failure it moves to error and the cause
// is re-thrown.
func (s *Service) Calculate(ctx context.Context, submissionID string) (*models.Submission, error) {
	sub, trip, participants, links, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if sub.Status != models.StatusPending && sub.Status != models.StatusError {
		return nil, domainerrors.Newf(domainerrors.CodeInvalidState,
			"calculate not allowed from status %q", sub.Status)
	}

	if result := validate.Participants(participants, &trip); !result.Valid {
		return nil, domainerrors.Wrap(result.Err(), domainerrors.CodeValidation, "participant validation failed")
	}

	parameters, err := mapper.ParametersFromTrip(trip, sub.ProductCode, sub.VariantCode, sub.PaymentSchemeCode)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "trip dates incomplete")
	}

	persons, err := mapper.PersonsFromLinks(participants, links)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "map participants")
	}

	req := wire.CalculateRequest{Parameters: parameters, Persons: persons}

	resp, callErr := s.insurer.CalculateOffer(ctx, req)
	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpCalculate,
		Request:      req,
		Response:     resp,
		ErrorCode:    insurerErrorCode(callErr),
		Err:          callErr,
	})
	if callErr != nil {
		s.markError(ctx, sub, callErr)
		return nil, wrapInsurerErr(callErr)
	}

	projection := mapper.ProjectOffer(resp)
	sub.ExternalOfferID = projection.OfferID
	sub.ErrorMessage = ""
	sub.LastRequest = jsonPayload(req)
	sub.LastResponse = jsonPayload(resp)

	if err := s.transition(ctx, sub, models.StatusCalculating); err != nil {
		return nil, err
	}
	return sub, nil
}
