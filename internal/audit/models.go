// Package audit persists a redacted record of every external insurer call.
// Entries are append-only and must never block the business operation that
// produced them.
package audit

import (
	"context"
	"encoding/json"
	"time"
)

// Operation names for audit entries, one per externally-visible action.
const (
	OpCalculate     = "calculate"
	OpRegister      = "register"
	OpIssue         = "issue"
	OpNotifyPayment = "notify_payment"
	OpSync          = "sync"
	OpCancel        = "cancel"
)

// Outcome values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry is one append-only audit record. Request and response payloads are
// stored redacted; raw personal data never reaches the audit trail.
type Entry struct {
	ID              string
	SubmissionID    string
	Operation       string
	Outcome         string
	RequestPayload  json.RawMessage
	ResponsePayload json.RawMessage
	ErrorCode       string
	ErrorMessage    string
	CreatedAt       time.Time
}

// Store persists audit entries. Implementations must be safe for concurrent
// use. Entries are never mutated or deleted.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListBySubmission(ctx context.Context, submissionID string) ([]Entry, error)
}

// Publisher fans an entry out to an external sink (e.g. Kafka). Best-effort:
// implementations report failures through their own logging, never to callers.
type Publisher interface {
	Publish(ctx context.Context, entry Entry)
}
