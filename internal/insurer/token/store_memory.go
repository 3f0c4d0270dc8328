package token

import (
	"context"
	"sync"

	"coverflow/pkg/sentinel"
)

// MemoryStore is the default in-process token cache.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]Token)}
}

func (s *MemoryStore) Get(_ context.Context, environment string) (Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[environment]
	if !ok {
		return Token{}, sentinel.ErrNotFound
	}
	return tok, nil
}

func (s *MemoryStore) Put(_ context.Context, environment string, tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[environment] = tok
	return nil
}
