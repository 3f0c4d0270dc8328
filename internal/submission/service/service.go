// Package service owns the submission state machine. It composes the
// validator, mapper, protocol client and audit recorder to drive one insurance
// batch from creation through issuance and reconciliation.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coverflow/internal/audit"
	"coverflow/internal/booking"
	"coverflow/internal/insurer/client"
	"coverflow/internal/insurer/wire"
	"coverflow/internal/platform/metrics"
	"coverflow/internal/submission/models"
	"coverflow/internal/submission/store"
	"coverflow/pkg/domainerrors"
)

// InsurerClient is the slice of the protocol client the orchestrator uses.
type InsurerClient interface {
	CalculateOffer(ctx context.Context, req wire.CalculateRequest) (wire.CalculateResponse, error)
	RegisterPolicy(ctx context.Context, req wire.RegisterRequest) (wire.RegisterResponse, error)
	IssuePolicy(ctx context.Context, req wire.IssueRequest) (wire.IssueResponse, error)
	NotifyPayment(ctx context.Context, req wire.PaymentNotification) (wire.PaymentResponse, error)
	GetPolicy(ctx context.Context, policyNumber string) (wire.Policy, error)
}

// Service orchestrates submissions.
type Service struct {
	subs     store.Store
	bookings booking.Store
	insurer  InsurerClient
	audit    *audit.Recorder
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// defaultProductCode backs Create when no explicit product is given and no
	// product is flagged default in storage.
	defaultProductCode string

	now func() time.Time
}

// New builds the orchestrator. All dependencies except metrics are required.
func New(
	subs store.Store,
	bookings booking.Store,
	insurer InsurerClient,
	recorder *audit.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
	defaultProductCode string,
) (*Service, error) {
	if subs == nil {
		return nil, errors.New("submission store is required")
	}
	if bookings == nil {
		return nil, errors.New("booking store is required")
	}
	if insurer == nil {
		return nil, errors.New("insurer client is required")
	}
	if recorder == nil {
		return nil, errors.New("audit recorder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		subs:               subs,
		bookings:           bookings,
		insurer:            insurer,
		audit:              recorder,
		metrics:            m,
		logger:             logger,
		defaultProductCode: defaultProductCode,
		now:                time.Now,
	}, nil
}

// Get returns one submission.
func (s *Service) Get(ctx context.Context, submissionID string) (*models.Submission, error) {
	sub, err := s.subs.Get(ctx, submissionID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeNotFound, "submission not found")
	}
	return sub, nil
}

// load fetches the submission plus the trip and participants it was built from.
func (s *Service) load(ctx context.Context, submissionID string) (*models.Submission, booking.Trip, []booking.Participant, []models.ParticipantLink, error) {
	sub, err := s.subs.Get(ctx, submissionID)
	if err != nil {
		return nil, booking.Trip{}, nil, nil, domainerrors.Wrap(err, domainerrors.CodeNotFound, "submission not found")
	}
	trip, err := s.bookings.Trip(ctx, sub.TripID)
	if err != nil {
		return nil, booking.Trip{}, nil, nil, domainerrors.Wrap(err, domainerrors.CodeNotFound, "trip not found")
	}
	participants, err := s.bookings.ConfirmedParticipants(ctx, sub.TripID)
	if err != nil {
		return nil, booking.Trip{}, nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load participants")
	}
	links, err := s.subs.Links(ctx, submissionID)
	if err != nil {
		return nil, booking.Trip{}, nil, nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "load participant links")
	}
	return sub, trip, participants, links, nil
}

// markError records a failed external call on the submission. Error is a side
// branch reachable from any non-terminal status, so this assigns directly
// instead of consulting the transition table.
func (s *Service) markError(ctx context.Context, sub *models.Submission, callErr error) {
	if sub.Status.IsTerminal() {
		return
	}
	sub.ForceStatus(models.StatusError)
	sub.ErrorMessage = callErr.Error()
	sub.UpdatedAt = s.now()
	if err := s.subs.Update(ctx, sub); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist error status",
			"submission_id", sub.ID,
			"error", err.Error(),
		)
	}
	s.metrics.IncTransition(string(models.StatusError))
}

// transition applies and persists a validated status change.
func (s *Service) transition(ctx context.Context, sub *models.Submission, to models.Status) error {
	if err := sub.Transition(to); err != nil {
		return err
	}
	sub.UpdatedAt = s.now()
	if err := s.subs.Update(ctx, sub); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "persist submission")
	}
	s.metrics.IncTransition(string(to))
	return nil
}

// wrapInsurerErr maps protocol client failures onto the domain error taxonomy.
func wrapInsurerErr(err error) error {
	var ce *client.ClientError
	if errors.As(err, &ce) {
		return domainerrors.Wrap(err, domainerrors.CodeUpstreamRejected, "insurer rejected the request")
	}
	var te *client.TransientError
	if errors.As(err, &te) {
		return domainerrors.Wrap(err, domainerrors.CodeUpstreamUnavailable, "insurer unavailable")
	}
	return domainerrors.Wrap(err, domainerrors.CodeInternal, "insurer call failed")
}

// insurerErrorCode extracts the insurer-provided error code when present.
func insurerErrorCode(err error) string {
	var ce *client.ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func jsonPayload(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(fmt.Sprintf("%q", err.Error()))
	}
	return raw
}
