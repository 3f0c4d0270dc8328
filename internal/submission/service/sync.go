package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"coverflow/internal/audit"
	"coverflow/internal/insurer/mapper"
	"coverflow/internal/submission/models"
	"coverflow/pkg/domainerrors"
)

// maxSyncFailures is the cumulative failure count at which a submission is
// parked in manual_check_required so background reconciliation stops retrying
// it forever.
const maxSyncFailures = 5

// Sync fetches the policy from the insurer and projects its status onto the
// submission. Requires an external policy number. Failures increment the
// attempt counter; the fifth cumulative failure forces manual_check_required
// regardless of the previous status.
func (s *Service) Sync(ctx context.Context, submissionID string) (*models.Submission, error) {
	sub, err := s.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if sub.ExternalPolicyNumber == "" {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "sync requires an external policy number")
	}

	policy, callErr := s.insurer.GetPolicy(ctx, sub.ExternalPolicyNumber)
	s.audit.Record(ctx, audit.Call{
		SubmissionID: sub.ID,
		Operation:    audit.OpSync,
		Request:      map[string]string{"policyNumber": sub.ExternalPolicyNumber},
		Response:     policy,
		ErrorCode:    insurerErrorCode(callErr),
		Err:          callErr,
	})

	if callErr != nil {
		sub.SyncAttempts++
		if sub.SyncAttempts >= maxSyncFailures {
			sub.ForceStatus(models.StatusManualCheckRequired)
			sub.ErrorMessage = "sync failure limit reached, manual check required"
			s.metrics.IncTransition(string(models.StatusManualCheckRequired))
		}
		sub.UpdatedAt = s.now()
		if err := s.subs.Update(ctx, sub); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist sync bookkeeping",
				"submission_id", sub.ID,
				"error", err.Error(),
			)
		}
		return nil, wrapInsurerErr(callErr)
	}

	projection := mapper.ProjectPolicy(policy)
	sub.PolicyStatusCode = projection.PolicyStatusCode
	if projection.Status != sub.Status && models.CanTransition(sub.Status, projection.Status) {
		if err := sub.Transition(projection.Status); err == nil {
			s.metrics.IncTransition(string(projection.Status))
		}
	}

	syncedAt := s.now()
	sub.LastSyncAt = &syncedAt
	sub.LastResponse = jsonPayload(policy)
	sub.UpdatedAt = syncedAt
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "persist submission")
	}
	return sub, nil
}

// SyncAll reconciles every syncable submission with bounded concurrency. One
// submission's failure never aborts the sweep; the first store-level error
// listing candidates does.
func (s *Service) SyncAll(ctx context.Context, limit, concurrency int) error {
	if concurrency <= 0 {
		concurrency = 4
	}

	candidates, err := s.subs.ListSyncable(ctx, limit)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "list syncable submissions")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, candidate := range candidates {
		g.Go(func() error {
			if _, err := s.Sync(ctx, candidate.ID); err != nil {
				s.logger.WarnContext(ctx, "sync failed",
					"submission_id", candidate.ID,
					"error", err.Error(),
				)
			}
			return nil
		})
	}
	return g.Wait()
}
