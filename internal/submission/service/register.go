package service

import (
	"context"

	"coverflow/internal/audit"
	"coverflow/internal/insurer/mapper"
	"coverflow/internal/insurer/wire"
	"coverflow/internal/submission/models"
	"coverflow/pkg/domainerrors"
)

// registrationConsents are fixed by the insurer contract and always accepted:
// submission implies both.
var registrationConsents = []wire.Consent{
	{Code: wire.ConsentCodeGeneral, Accepted: true},
	{Code: wire.ConsentCodeGDPR, Accepted: true},
}

// Register sends offer details to the insurer ahead of issuance. Requires a
// prior offer id (explicit argument or stored on the submission) and the
// calculating status. Insurer-assigned person identifiers returned in the
// response are persisted on the participant links.
func (s *Service) Register(ctx context.Context, submissionID, offerID string) (*models.Submission, error) {
	sub, trip, participants, links, err := s.load(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if offerID == "" {
		offerID = sub.ExternalOfferID
	}
	if offerID == "" {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "register requires a calculated offer id")
	}
	if sub.Status != models.StatusCalculating {
		return nil, domainerrors.Newf(domainerrors.CodeInvalidState,
			"register not allowed from status %q", sub.Status)
	}

	parameters, err := mapper.ParametersFromTrip(trip, sub.ProductCode, sub.VariantCode, sub.PaymentSchemeCode)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "trip dates incomplete")
	}
	persons, err := mapper.PersonsFromLinks(participants, links)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "map participants")
	}

	req := wire.RegisterRequest{
		OfferID:    offerID,
		Parameters: parameters,
		Persons:    persons,
		Consents:   registrationConsents,
	}

	resp, callErr := s.insurer.RegisterPolicy(ctx, req)
	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpRegister,
		Request:      req,
		Response:     resp,
		ErrorCode:    insurerErrorCode(callErr),
		Err:          callErr,
	})
	if callErr != nil {
		s.markError(ctx, sub, callErr)
		return nil, wrapInsurerErr(callErr)
	}

	projection := mapper.ProjectRegistration(resp)
	if projection.OfferID != "" {
		sub.ExternalOfferID = projection.OfferID
	}
	sub.ErrorMessage = ""
	sub.LastRequest = jsonPayload(req)
	sub.LastResponse = jsonPayload(resp)

	for ordinal, personID := range mapper.ExternalPersonIDs(resp.Persons) {
		if err := s.subs.SetLinkPersonID(ctx, sub.ID, ordinal, personID); err != nil {
			s.logger.WarnContext(ctx, "failed to persist external person id",
				"submission_id", sub.ID,
				"hdi_order", ordinal,
				"error", err.Error(),
			)
		}
	}

	if err := s.transition(ctx, sub, models.StatusRegistered); err != nil {
		return nil, err
	}
	return sub, nil
}
