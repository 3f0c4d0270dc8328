package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"coverflow/internal/submission/models"
	"coverflow/pkg/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func newSubmission(id string) *models.Submission {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.Submission{
		ID:               id,
		TripID:           "trip-1",
		ParticipantCount: 2,
		Status:           models.StatusPending,
		ProductCode:      "TRAVEL",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (s *MemoryStoreSuite) TestCreateGetUpdateDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, newSubmission("sub-1")))

	s.Run("duplicate create conflicts", func() {
		s.ErrorIs(s.store.Create(ctx, newSubmission("sub-1")), sentinel.ErrConflict)
	})

	s.Run("get returns a copy", func() {
		got, err := s.store.Get(ctx, "sub-1")
		s.Require().NoError(err)
		got.Status = models.StatusCancelled

		again, err := s.store.Get(ctx, "sub-1")
		s.Require().NoError(err)
		s.Equal(models.StatusPending, again.Status)
	})

	s.Run("update persists changes", func() {
		sub, err := s.store.Get(ctx, "sub-1")
		s.Require().NoError(err)
		sub.ExternalOfferID = "offer-1"
		s.Require().NoError(s.store.Update(ctx, sub))

		got, err := s.store.Get(ctx, "sub-1")
		s.Require().NoError(err)
		s.Equal("offer-1", got.ExternalOfferID)
	})

	s.Run("update of a missing submission fails", func() {
		s.ErrorIs(s.store.Update(ctx, newSubmission("ghost")), sentinel.ErrNotFound)
	})

	s.Run("delete removes the submission and its links", func() {
		s.Require().NoError(s.store.AddParticipantLinks(ctx, []models.ParticipantLink{
			{SubmissionID: "sub-1", ParticipantID: "p1", HDIOrder: 1},
		}))
		s.Require().NoError(s.store.Delete(ctx, "sub-1"))

		_, err := s.store.Get(ctx, "sub-1")
		s.ErrorIs(err, sentinel.ErrNotFound)
		links, err := s.store.Links(ctx, "sub-1")
		s.NoError(err)
		s.Empty(links)
	})
}

func (s *MemoryStoreSuite) TestLinks() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newSubmission("sub-1")))
	s.Require().NoError(s.store.AddParticipantLinks(ctx, []models.ParticipantLink{
		{SubmissionID: "sub-1", ParticipantID: "p2", HDIOrder: 2},
		{SubmissionID: "sub-1", ParticipantID: "p1", HDIOrder: 1},
	}))

	s.Run("links come back in ordinal order", func() {
		links, err := s.store.Links(ctx, "sub-1")
		s.Require().NoError(err)
		s.Require().Len(links, 2)
		s.Equal(1, links[0].HDIOrder)
		s.Equal(2, links[1].HDIOrder)
	})

	s.Run("person id lands on the right ordinal", func() {
		s.Require().NoError(s.store.SetLinkPersonID(ctx, "sub-1", 2, "ext-2"))

		links, err := s.store.Links(ctx, "sub-1")
		s.Require().NoError(err)
		s.Empty(links[0].ExternalPersonID)
		s.Equal("ext-2", links[1].ExternalPersonID)
	})

	s.Run("unknown ordinal fails", func() {
		s.ErrorIs(s.store.SetLinkPersonID(ctx, "sub-1", 9, "ext-9"), sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestListSyncable() {
	ctx := context.Background()

	withPolicy := newSubmission("with-policy")
	withPolicy.ExternalPolicyNumber = "PL-1"
	withPolicy.Status = models.StatusSent
	s.Require().NoError(s.store.Create(ctx, withPolicy))

	noPolicy := newSubmission("no-policy")
	s.Require().NoError(s.store.Create(ctx, noPolicy))

	terminal := newSubmission("terminal")
	terminal.ExternalPolicyNumber = "PL-2"
	terminal.Status = models.StatusCancelled
	s.Require().NoError(s.store.Create(ctx, terminal))

	synced := newSubmission("synced")
	synced.ExternalPolicyNumber = "PL-3"
	synced.Status = models.StatusIssued
	syncedAt := time.Now()
	synced.LastSyncAt = &syncedAt
	s.Require().NoError(s.store.Create(ctx, synced))

	s.Run("only non-terminal submissions with a policy number qualify", func() {
		out, err := s.store.ListSyncable(ctx, 0)
		s.Require().NoError(err)
		s.Require().Len(out, 2)
		// Never-synced submissions come first.
		s.Equal("with-policy", out[0].ID)
		s.Equal("synced", out[1].ID)
	})

	s.Run("limit caps the result", func() {
		out, err := s.store.ListSyncable(ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(out, 1)
		s.Equal("with-policy", out[0].ID)
	})
}
