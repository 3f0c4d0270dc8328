package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coverflow/pkg/sentinel"
)

// Postgres reads the booking domain's tables directly. The engine never writes
// them.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Trip(ctx context.Context, tripID string) (Trip, error) {
	const q = `
SELECT id, name, location, start_date, end_date
FROM trips
WHERE id = $1`

	var t Trip
	err := s.pool.QueryRow(ctx, q, tripID).Scan(&t.ID, &t.Name, &t.Location, &t.StartDate, &t.EndDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Trip{}, fmt.Errorf("booking: fetch trip: %w", err)
	}
	return t, nil
}

func (s *Postgres) ConfirmedParticipants(ctx context.Context, tripID string) ([]Participant, error) {
	const q = `
SELECT p.id, p.first_name, p.last_name, p.birth_date, p.gender, p.email, p.phone,
       p.pesel, p.document_type, p.document_number, p.citizenship,
       p.street_line, p.city, p.zip, p.country
FROM participants p
JOIN bookings b ON b.id = p.booking_id
WHERE b.trip_id = $1 AND b.status = $2
ORDER BY b.created_at, p.created_at`

	rows, err := s.pool.Query(ctx, q, tripID, StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("booking: query participants: %w", err)
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var (
			p                            Participant
			gender, email, phone         *string
			pesel, docType, docNumber    *string
			citizenship                  *string
			street, city, zip, country   *string
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &gender, &email, &phone,
			&pesel, &docType, &docNumber, &citizenship,
			&street, &city, &zip, &country); err != nil {
			return nil, fmt.Errorf("booking: scan participant: %w", err)
		}
		p.Gender = deref(gender)
		p.Email = deref(email)
		p.Phone = deref(phone)
		p.PESEL = deref(pesel)
		p.DocumentType = deref(docType)
		p.DocumentNumber = deref(docNumber)
		p.Citizenship = deref(citizenship)
		if street != nil || city != nil || zip != nil || country != nil {
			p.Address = &Address{
				StreetLine: deref(street),
				City:       deref(city),
				Zip:        deref(zip),
				Country:    deref(country),
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("booking: iterate participants: %w", err)
	}
	return out, nil
}

func (s *Postgres) ProductByCode(ctx context.Context, code string) (InsuranceProduct, error) {
	const q = `
SELECT code, variant_code, payment_scheme_code, is_default
FROM insurance_products
WHERE code = $1`
	return s.scanProduct(s.pool.QueryRow(ctx, q, code))
}

func (s *Postgres) DefaultProduct(ctx context.Context) (InsuranceProduct, error) {
	const q = `
SELECT code, variant_code, payment_scheme_code, is_default
FROM insurance_products
WHERE is_default
LIMIT 1`
	return s.scanProduct(s.pool.QueryRow(ctx, q))
}

func (s *Postgres) scanProduct(row pgx.Row) (InsuranceProduct, error) {
	var p InsuranceProduct
	var variant, scheme *string
	err := row.Scan(&p.Code, &variant, &scheme, &p.IsDefault)
	if errors.Is(err, pgx.ErrNoRows) {
		return InsuranceProduct{}, sentinel.ErrNotFound
	}
	if err != nil {
		return InsuranceProduct{}, fmt.Errorf("booking: fetch product: %w", err)
	}
	p.VariantCode = deref(variant)
	p.PaymentSchemeCode = deref(scheme)
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
