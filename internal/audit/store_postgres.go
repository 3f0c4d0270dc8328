package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore appends entries to the submission_audit_log table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	const q = `
INSERT INTO submission_audit_log
	(id, submission_id, operation, outcome, request_payload, response_payload, error_code, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.pool.Exec(ctx, q,
		entry.ID, entry.SubmissionID, entry.Operation, entry.Outcome,
		entry.RequestPayload, entry.ResponsePayload,
		nullable(entry.ErrorCode), nullable(entry.ErrorMessage), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("audit: append entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListBySubmission(ctx context.Context, submissionID string) ([]Entry, error) {
	const q = `
SELECT id, submission_id, operation, outcome, request_payload, response_payload,
       COALESCE(error_code, ''), COALESCE(error_message, ''), created_at
FROM submission_audit_log
WHERE submission_id = $1
ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q, submissionID)
	if err != nil {
		return nil, fmt.Errorf("audit: query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SubmissionID, &e.Operation, &e.Outcome,
			&e.RequestPayload, &e.ResponsePayload, &e.ErrorCode, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate entries: %w", err)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
