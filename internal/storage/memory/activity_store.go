package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// ActivityStore is an in-memory implementation of storage.ActivityStore.
// Events are an append-only slice, matching the keyless infl_buys table.
type ActivityStore struct {
	mu     sync.RWMutex
	events []*domain.ActivityEvent
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

// Append records an activity event.
func (s *ActivityStore) Append(_ context.Context, e *domain.ActivityEvent) error {
	if e == nil || e.WalletAddress == "" || e.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	eventCopy := *e
	s.events = append(s.events, &eventCopy)
	return nil
}

// DeleteBefore evicts events with timestamp < cutoff.
func (s *ActivityStore) DeleteBefore(_ context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	for _, e := range s.events {
		if !e.Timestamp.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	s.events = kept
	return nil
}

// SeenPairs retrieves the (token, timestamp) pairs logged for a wallet.
func (s *ActivityStore) SeenPairs(_ context.Context, wallet string) (map[domain.TokenTime]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[domain.TokenTime]struct{})
	for _, e := range s.events {
		if e.WalletAddress == wallet {
			result[e.Key()] = struct{}{}
		}
	}
	return result, nil
}

// TokensBoughtByMoreThan retrieves tokens bought by strictly more than k
// distinct wallets.
func (s *ActivityStore) TokensBoughtByMoreThan(_ context.Context, k int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buyers := make(map[string]map[string]struct{})
	for _, e := range s.events {
		if buyers[e.TokenAddress] == nil {
			buyers[e.TokenAddress] = make(map[string]struct{})
		}
		buyers[e.TokenAddress][e.WalletAddress] = struct{}{}
	}

	var result []string
	for token, wallets := range buyers {
		if len(wallets) > k {
			result = append(result, token)
		}
	}

	sort.Strings(result)
	return result, nil
}

// DistinctWalletsForToken retrieves the distinct wallets with events for
// a token.
func (s *ActivityStore) DistinctWalletsForToken(_ context.Context, token string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []string
	for _, e := range s.events {
		if e.TokenAddress != token {
			continue
		}
		if _, ok := seen[e.WalletAddress]; ok {
			continue
		}
		seen[e.WalletAddress] = struct{}{}
		result = append(result, e.WalletAddress)
	}

	sort.Strings(result)
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ActivityStore = (*ActivityStore)(nil)
