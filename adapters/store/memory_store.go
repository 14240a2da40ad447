package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/authtoken/core"
	"github.com/layer-3/authtoken/ports"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Tokens live for the lifetime of the process; only their validity expires.
type MemoryStore struct {
	tokens map[string]core.Token
	mu     sync.RWMutex
	delay  time.Duration
}

// NewMemoryStore creates a new in-memory store whose lookups take delay to complete
func NewMemoryStore(delay time.Duration) ports.Store {
	return &MemoryStore{
		tokens: make(map[string]core.Token),
		delay:  delay,
	}
}

// Add stores a token under its value, replacing any previous entry
func (s *MemoryStore) Add(ctx context.Context, token core.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token.Value] = token
	return nil
}

// FindByValue waits for the configured delay, then looks the token up
func (s *MemoryStore) FindByValue(ctx context.Context, value string) (core.Token, bool, error) {
	if err := wait(ctx, s.delay); err != nil {
		return core.Token{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[value]
	return token, ok, nil
}
