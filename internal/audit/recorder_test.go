package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/insurer/wire"
)

type failingStore struct{}

func (failingStore) Append(context.Context, Entry) error {
	return errors.New("disk full")
}

func (failingStore) ListBySubmission(context.Context, string) ([]Entry, error) {
	return nil, errors.New("disk full")
}

type capturePublisher struct {
	mu      sync.Mutex
	entries []Entry
}

func (p *capturePublisher) Publish(_ context.Context, entry Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

type RecorderSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *RecorderSuite) TestRecord() {
	ctx := context.Background()

	s.Run("successful call produces a success entry", func() {
		recorder := NewRecorder(s.store, nil, nil)

		recorder.Record(ctx, Call{
			SubmissionID: "sub-1",
			Operation:    OpCalculate,
			Request:      wire.CalculateRequest{},
			Response:     wire.CalculateResponse{OfferID: "offer-1"},
		})

		entries, err := s.store.ListBySubmission(ctx, "sub-1")
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal(OutcomeSuccess, entries[0].Outcome)
		s.Equal(OpCalculate, entries[0].Operation)
		s.NotEmpty(entries[0].ID)
		s.False(entries[0].CreatedAt.IsZero())
	})

	s.Run("failed call carries outcome and error message", func() {
		recorder := NewRecorder(s.store, nil, nil)

		recorder.Record(ctx, Call{
			SubmissionID: "sub-2",
			Operation:    OpIssue,
			ErrorCode:    "UPSTREAM",
			Err:          errors.New("gateway timeout"),
		})

		entries, err := s.store.ListBySubmission(ctx, "sub-2")
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.Equal(OutcomeFailure, entries[0].Outcome)
		s.Equal("UPSTREAM", entries[0].ErrorCode)
		s.Equal("gateway timeout", entries[0].ErrorMessage)
	})

	s.Run("payloads are stored redacted", func() {
		recorder := NewRecorder(s.store, nil, nil)

		recorder.Record(ctx, Call{
			SubmissionID: "sub-3",
			Operation:    OpRegister,
			Request: wire.RegisterRequest{
				Persons: []wire.Person{{Name: "Anna", PersonalIDNumber: "85032112345"}},
			},
		})

		entries, err := s.store.ListBySubmission(ctx, "sub-3")
		s.Require().NoError(err)
		s.Require().Len(entries, 1)
		s.NotContains(string(entries[0].RequestPayload), "Anna")
		s.NotContains(string(entries[0].RequestPayload), "85032112345")
	})

	s.Run("store failure never panics or propagates", func() {
		recorder := NewRecorder(failingStore{}, nil, nil)

		s.NotPanics(func() {
			recorder.Record(ctx, Call{SubmissionID: "sub-4", Operation: OpSync})
		})
	})

	s.Run("publisher receives every entry", func() {
		publisher := &capturePublisher{}
		recorder := NewRecorder(s.store, publisher, nil)

		recorder.Record(ctx, Call{SubmissionID: "sub-5", Operation: OpCancel})

		s.Require().Len(publisher.entries, 1)
		s.Equal("sub-5", publisher.entries[0].SubmissionID)
	})
}
