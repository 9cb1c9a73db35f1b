package memory

import (
	"context"
	"sync"

	"solana-wallet-radar/internal/storage"
)

// NotifiedTokenStore is an in-memory implementation of
// storage.NotifiedTokenStore.
type NotifiedTokenStore struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

// NewNotifiedTokenStore creates a new in-memory notified-token store.
func NewNotifiedTokenStore() *NotifiedTokenStore {
	return &NotifiedTokenStore{
		data: make(map[string]struct{}),
	}
}

// Add marks a token as notified.
func (s *NotifiedTokenStore) Add(_ context.Context, token string) error {
	if token == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[token]; exists {
		return storage.ErrDuplicateKey
	}
	s.data[token] = struct{}{}
	return nil
}

// IsNotified reports whether a token has been alerted on.
func (s *NotifiedTokenStore) IsNotified(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.data[token]
	return exists, nil
}

// Remove clears one token, or every token when token is empty.
func (s *NotifiedTokenStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		s.data = make(map[string]struct{})
		return nil
	}
	delete(s.data, token)
	return nil
}

// Verify interface compliance at compile time.
var _ storage.NotifiedTokenStore = (*NotifiedTokenStore)(nil)
