package booking

import (
	"context"
	"sync"

	"coverflow/pkg/sentinel"
)

// InMemory backs tests and local development.
type InMemory struct {
	mu           sync.RWMutex
	trips        map[string]Trip
	participants map[string][]Participant // tripID -> confirmed participants
	products     map[string]InsuranceProduct
}

func NewInMemory() *InMemory {
	return &InMemory{
		trips:        make(map[string]Trip),
		participants: make(map[string][]Participant),
		products:     make(map[string]InsuranceProduct),
	}
}

// AddTrip seeds a trip.
func (s *InMemory) AddTrip(trip Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[trip.ID] = trip
}

// AddConfirmedParticipant appends a participant to a trip's confirmed set.
func (s *InMemory) AddConfirmedParticipant(tripID string, p Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants[tripID] = append(s.participants[tripID], p)
}

// AddProduct seeds an insurance product.
func (s *InMemory) AddProduct(p InsuranceProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.Code] = p
}

func (s *InMemory) Trip(_ context.Context, tripID string) (Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trip, ok := s.trips[tripID]
	if !ok {
		return Trip{}, sentinel.ErrNotFound
	}
	return trip, nil
}

func (s *InMemory) ConfirmedParticipants(_ context.Context, tripID string) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Participant{}, s.participants[tripID]...), nil
}

func (s *InMemory) ProductByCode(_ context.Context, code string) (InsuranceProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[code]
	if !ok {
		return InsuranceProduct{}, sentinel.ErrNotFound
	}
	return p, nil
}

func (s *InMemory) DefaultProduct(_ context.Context) (InsuranceProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.IsDefault {
			return p, nil
		}
	}
	return InsuranceProduct{}, sentinel.ErrNotFound
}
