package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"coverflow/internal/booking"
	"coverflow/internal/submission/models"
	"coverflow/internal/submission/validate"
	"coverflow/pkg/domainerrors"
	"coverflow/pkg/sentinel"
)

// CreateParams parameterize submission creation. ProductCode is optional; the
// configured default product is used when absent.
type CreateParams struct {
	TripID      string
	ProductCode string
}

// Create builds a pending submission from the trip's confirmed bookings. Every
// participant gets a link row with a dense 1..N ordinal in insertion order; the
// ordinal becomes the wire protocol's person number for all later calls. If the
// link insert fails the submission row is removed again so no orphan pending
// submissions survive.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Submission, error) {
	if params.TripID == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "trip id is required")
	}

	trip, err := s.bookings.Trip(ctx, params.TripID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeNotFound, "trip not found")
	}

	participants, err := s.bookings.ConfirmedParticipants(ctx, trip.ID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load participants")
	}
	if len(participants) == 0 {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "no confirmed bookings for trip")
	}

	product, err := s.resolveProduct(ctx, params.ProductCode)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sub := &models.Submission{
		ID:                uuid.NewString(),
		TripID:            trip.ID,
		ParticipantCount:  len(participants),
		Status:            models.StatusPending,
		ProductCode:       product.Code,
		VariantCode:       product.VariantCode,
		PaymentSchemeCode: product.PaymentSchemeCode,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "create submission")
	}

	links := make([]models.ParticipantLink, 0, len(participants))
	for i, p := range participants {
		links = append(links, models.ParticipantLink{
			SubmissionID:  sub.ID,
			ParticipantID: p.ID,
			HDIOrder:      i + 1,
		})
	}
	if err := s.subs.AddParticipantLinks(ctx, links); err != nil {
		if delErr := s.subs.Delete(ctx, sub.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "rollback of submission failed",
				"submission_id", sub.ID,
				"error", delErr.Error(),
			)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "link participants")
	}

	return sub, nil
}

// resolveProduct picks the explicit product, then the configured default, then
// the product flagged default in storage.
func (s *Service) resolveProduct(ctx context.Context, code string) (booking.InsuranceProduct, error) {
	if code == "" {
		code = s.defaultProductCode
	}
	if code != "" {
		product, err := s.bookings.ProductByCode(ctx, code)
		if err != nil {
			return booking.InsuranceProduct{}, domainerrors.Newf(domainerrors.CodeBadRequest, "insurance product %q not configured", code)
		}
		return product, nil
	}

	product, err := s.bookings.DefaultProduct(ctx)
	if errors.Is(err, sentinel.ErrNotFound) {
		return booking.InsuranceProduct{}, domainerrors.New(domainerrors.CodeBadRequest, "no insurance product given and no default configured")
	}
	if err != nil {
		return booking.InsuranceProduct{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "resolve default product")
	}
	return product, nil
}

// Validate checks the submission's participants and trip against insurer
// requirements. Read-only: it never changes the submission status and is used
// as the precondition gate before Calculate.
func (s *Service) Validate(ctx context.Context, submissionID string) (validate.Result, error) {
	_, trip, participants, _, err := s.load(ctx, submissionID)
	if err != nil {
		return validate.Result{}, err
	}
	return validate.Participants(participants, &trip), nil
}
