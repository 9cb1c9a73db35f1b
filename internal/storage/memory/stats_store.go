package memory

import (
	"context"
	"sync"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// StatsStore is an in-memory implementation of storage.StatsStore.
type StatsStore struct {
	mu   sync.RWMutex
	data map[string]*domain.WalletStats
}

// NewStatsStore creates a new in-memory stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{
		data: make(map[string]*domain.WalletStats),
	}
}

// Upsert inserts or overwrites the stats row for a wallet.
func (s *StatsStore) Upsert(_ context.Context, stats *domain.WalletStats) error {
	if stats == nil || stats.WalletAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statsCopy := *stats
	s.data[stats.WalletAddress] = &statsCopy
	return nil
}

// GetByWallet retrieves stats for a wallet.
func (s *StatsStore) GetByWallet(_ context.Context, wallet string) (*domain.WalletStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, exists := s.data[wallet]
	if !exists {
		return nil, storage.ErrNotFound
	}

	statsCopy := *stats
	return &statsCopy, nil
}

// Verify interface compliance at compile time.
var _ storage.StatsStore = (*StatsStore)(nil)
