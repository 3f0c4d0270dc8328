// Package models defines the submission aggregate: one insurance request batch
// for a trip, its lifecycle status, and its participant links.
package models

import (
	"encoding/json"
	"time"
)

// Submission is one insurance request batch for a trip. It is never deleted;
// failed or abandoned batches end in a terminal status instead.
type Submission struct {
	ID               string
	TripID           string
	ParticipantCount int
	Status           Status

	// External identifiers assigned by the insurer as the protocol advances.
	ExternalOfferID      string
	ExternalPolicyID     string
	ExternalPolicyNumber string

	ProductCode       string
	VariantCode       string
	PaymentSchemeCode string

	// Last wire payloads, kept for operator debugging. Audit log copies are
	// redacted; these mirror what actually crossed the wire.
	LastRequest  json.RawMessage
	LastResponse json.RawMessage

	ErrorMessage string

	// Sync bookkeeping.
	LastSyncAt       *time.Time
	SyncAttempts     int
	PolicyStatusCode string

	SentAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParticipantLink ties a submission to a domain participant. HDIOrder is the
// stable 1..N ordinal used as the wire protocol's person number, reused across
// calculate/register/issue so the insurer can correlate persons between calls.
type ParticipantLink struct {
	SubmissionID     string
	ParticipantID    string
	HDIOrder         int
	ExternalPersonID string
}
