package store

import (
	"context"
	"sort"
	"sync"

	"coverflow/internal/submission/models"
	"coverflow/pkg/sentinel"
)

// InMemory backs tests and local development.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[string]models.Submission
	links       map[string][]models.ParticipantLink

	// FailLinks makes AddParticipantLinks fail once; lets tests exercise the
	// create rollback path.
	FailLinks bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		submissions: make(map[string]models.Submission),
		links:       make(map[string][]models.ParticipantLink),
	}
}

// Count reports how many submissions are stored; test inspection helper.
func (s *InMemory) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

func (s *InMemory) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[sub.ID]; exists {
		return sentinel.ErrConflict
	}
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *InMemory) Delete(_ context.Context, submissionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[submissionID]; !exists {
		return sentinel.ErrNotFound
	}
	delete(s.submissions, submissionID)
	delete(s.links, submissionID)
	return nil
}

func (s *InMemory) Get(_ context.Context, submissionID string) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := sub
	return &copied, nil
}

func (s *InMemory) Update(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[sub.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.submissions[sub.ID] = *sub
	return nil
}

func (s *InMemory) AddParticipantLinks(_ context.Context, links []models.ParticipantLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailLinks {
		s.FailLinks = false
		return sentinel.ErrUnavailable
	}
	for _, link := range links {
		s.links[link.SubmissionID] = append(s.links[link.SubmissionID], link)
	}
	return nil
}

func (s *InMemory) Links(_ context.Context, submissionID string) ([]models.ParticipantLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]models.ParticipantLink{}, s.links[submissionID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].HDIOrder < out[j].HDIOrder })
	return out, nil
}

func (s *InMemory) SetLinkPersonID(_ context.Context, submissionID string, hdiOrder int, externalPersonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, link := range s.links[submissionID] {
		if link.HDIOrder == hdiOrder {
			s.links[submissionID][i].ExternalPersonID = externalPersonID
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemory) ListSyncable(_ context.Context, limit int) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Submission
	for _, sub := range s.submissions {
		if sub.ExternalPolicyNumber == "" || sub.Status.IsTerminal() {
			continue
		}
		copied := sub
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := out[i].LastSyncAt, out[j].LastSyncAt
		switch {
		case li == nil:
			return true
		case lj == nil:
			return false
		default:
			return li.Before(*lj)
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
