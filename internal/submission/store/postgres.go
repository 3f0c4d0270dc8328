package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coverflow/internal/submission/models"
	"coverflow/pkg/sentinel"
)

// Postgres persists submissions in the submissions and submission_participants
// tables.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const submissionColumns = `
id, trip_id, participant_count, status,
external_offer_id, external_policy_id, external_policy_number,
product_code, variant_code, payment_scheme_code,
last_request, last_response, error_message,
last_sync_at, sync_attempts, policy_status_code,
sent_at, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, sub *models.Submission) error {
	const q = `
INSERT INTO submissions (` + submissionColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`

	_, err := s.pool.Exec(ctx, q,
		sub.ID, sub.TripID, sub.ParticipantCount, string(sub.Status),
		nullable(sub.ExternalOfferID), nullable(sub.ExternalPolicyID), nullable(sub.ExternalPolicyNumber),
		sub.ProductCode, nullable(sub.VariantCode), nullable(sub.PaymentSchemeCode),
		sub.LastRequest, sub.LastResponse, nullable(sub.ErrorMessage),
		sub.LastSyncAt, sub.SyncAttempts, nullable(sub.PolicyStatusCode),
		sub.SentAt, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("submission: insert: %w", err)
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, submissionID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, submissionID)
	if err != nil {
		return fmt.Errorf("submission: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, submissionID string) (*models.Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	return scanSubmission(s.pool.QueryRow(ctx, q, submissionID))
}

func (s *Postgres) Update(ctx context.Context, sub *models.Submission) error {
	const q = `
UPDATE submissions SET
	status = $2,
	external_offer_id = $3,
	external_policy_id = $4,
	external_policy_number = $5,
	product_code = $6,
	variant_code = $7,
	payment_scheme_code = $8,
	last_request = $9,
	last_response = $10,
	error_message = $11,
	last_sync_at = $12,
	sync_attempts = $13,
	policy_status_code = $14,
	sent_at = $15,
	updated_at = now()
WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q,
		sub.ID, string(sub.Status),
		nullable(sub.ExternalOfferID), nullable(sub.ExternalPolicyID), nullable(sub.ExternalPolicyNumber),
		sub.ProductCode, nullable(sub.VariantCode), nullable(sub.PaymentSchemeCode),
		sub.LastRequest, sub.LastResponse, nullable(sub.ErrorMessage),
		sub.LastSyncAt, sub.SyncAttempts, nullable(sub.PolicyStatusCode),
		sub.SentAt)
	if err != nil {
		return fmt.Errorf("submission: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) AddParticipantLinks(ctx context.Context, links []models.ParticipantLink) error {
	batch := &pgx.Batch{}
	for _, link := range links {
		batch.Queue(`
INSERT INTO submission_participants (submission_id, participant_id, hdi_order, external_person_id)
VALUES ($1, $2, $3, $4)`,
			link.SubmissionID, link.ParticipantID, link.HDIOrder, nullable(link.ExternalPersonID))
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range links {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("submission: insert participant link: %w", err)
		}
	}
	return nil
}

func (s *Postgres) Links(ctx context.Context, submissionID string) ([]models.ParticipantLink, error) {
	const q = `
SELECT submission_id, participant_id, hdi_order, COALESCE(external_person_id, '')
FROM submission_participants
WHERE submission_id = $1
ORDER BY hdi_order`

	rows, err := s.pool.Query(ctx, q, submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission: query links: %w", err)
	}
	defer rows.Close()

	var out []models.ParticipantLink
	for rows.Next() {
		var link models.ParticipantLink
		if err := rows.Scan(&link.SubmissionID, &link.ParticipantID, &link.HDIOrder, &link.ExternalPersonID); err != nil {
			return nil, fmt.Errorf("submission: scan link: %w", err)
		}
		out = append(out, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("submission: iterate links: %w", err)
	}
	return out, nil
}

func (s *Postgres) SetLinkPersonID(ctx context.Context, submissionID string, hdiOrder int, externalPersonID string) error {
	const q = `
UPDATE submission_participants
SET external_person_id = $3
WHERE submission_id = $1 AND hdi_order = $2`

	tag, err := s.pool.Exec(ctx, q, submissionID, hdiOrder, externalPersonID)
	if err != nil {
		return fmt.Errorf("submission: set link person id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) ListSyncable(ctx context.Context, limit int) ([]*models.Submission, error) {
	q := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE external_policy_number IS NOT NULL
  AND status NOT IN ('cancelled', 'manual_check_required')
ORDER BY last_sync_at NULLS FIRST`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("submission: query syncable: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("submission: iterate syncable: %w", err)
	}
	return out, nil
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var (
		sub    models.Submission
		status string

		offerID, policyID, policyNumber     *string
		variant, scheme, errMsg, policyCode *string
	)
	err := row.Scan(
		&sub.ID, &sub.TripID, &sub.ParticipantCount, &status,
		&offerID, &policyID, &policyNumber,
		&sub.ProductCode, &variant, &scheme,
		&sub.LastRequest, &sub.LastResponse, &errMsg,
		&sub.LastSyncAt, &sub.SyncAttempts, &policyCode,
		&sub.SentAt, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("submission: scan: %w", err)
	}

	sub.Status = models.Status(status)
	sub.ExternalOfferID = deref(offerID)
	sub.ExternalPolicyID = deref(policyID)
	sub.ExternalPolicyNumber = deref(policyNumber)
	sub.VariantCode = deref(variant)
	sub.PaymentSchemeCode = deref(scheme)
	sub.ErrorMessage = deref(errMsg)
	sub.PolicyStatusCode = deref(policyCode)
	return &sub, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
