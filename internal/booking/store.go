package booking

import "context"

// Store is the read-only view the engine needs from the booking domain.
// Implementations return sentinel.ErrNotFound for missing entities.
type Store interface {
	Trip(ctx context.Context, tripID string) (Trip, error)
	// ConfirmedParticipants returns the participants of every confirmed
	// booking for the trip, in booking insertion order.
	ConfirmedParticipants(ctx context.Context, tripID string) ([]Participant, error)
	ProductByCode(ctx context.Context, code string) (InsuranceProduct, error)
	DefaultProduct(ctx context.Context) (InsuranceProduct, error)
}
