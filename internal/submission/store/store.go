// Package store persists submissions and their participant links.
package store

import (
	"context"

	"coverflow/internal/submission/models"
)

// Store is the submission persistence contract. Implementations return
// sentinel.ErrNotFound for missing submissions and must be safe for concurrent
// use.
type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	// Delete removes a submission row. Used only to roll back a creation whose
	// participant links failed to insert; settled submissions are never deleted.
	Delete(ctx context.Context, submissionID string) error
	Get(ctx context.Context, submissionID string) (*models.Submission, error)
	Update(ctx context.Context, sub *models.Submission) error

	AddParticipantLinks(ctx context.Context, links []models.ParticipantLink) error
	Links(ctx context.Context, submissionID string) ([]models.ParticipantLink, error)
	// SetLinkPersonID records the insurer-assigned person identifier for the
	// link with the given ordinal.
	SetLinkPersonID(ctx context.Context, submissionID string, hdiOrder int, externalPersonID string) error

	// ListSyncable returns submissions that hold an external policy number and
	// sit in a non-terminal status, oldest sync first.
	ListSyncable(ctx context.Context, limit int) ([]*models.Submission, error)
}
