package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Call describes one finished external operation as the orchestrator saw it.
// Request and Response are the typed wire payloads; the recorder redacts them
// before anything is persisted.
type Call struct {
	SubmissionID string
	Operation    string
	Request      any
	Response     any
	ErrorCode    string
	Err          error
}

// Recorder writes audit entries. A store or publisher failure is reported to
// the logger and swallowed: a logging outage must never abort the business
// operation it describes.
type Recorder struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewRecorder builds a Recorder. publisher may be nil.
func NewRecorder(store Store, publisher Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Record persists one redacted audit entry for the call.
func (r *Recorder) Record(ctx context.Context, call Call) {
	entry := Entry{
		ID:              uuid.NewString(),
		SubmissionID:    call.SubmissionID,
		Operation:       call.Operation,
		Outcome:         OutcomeSuccess,
		RequestPayload:  Redact(call.Request),
		ResponsePayload: Redact(call.Response),
		ErrorCode:       call.ErrorCode,
		CreatedAt:       r.now(),
	}
	if call.Err != nil {
		entry.Outcome = OutcomeFailure
		entry.ErrorMessage = call.Err.Error()
	}

	if err := r.store.Append(ctx, entry); err != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"submission_id", entry.SubmissionID,
			"operation", entry.Operation,
			"error", err.Error(),
		)
	}

	if r.publisher != nil {
		r.publisher.Publish(ctx, entry)
	}
}
