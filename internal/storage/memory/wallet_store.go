package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Wallet // keyed by address
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data: make(map[string]*domain.Wallet),
	}
}

// Insert adds a new tracked wallet. Returns ErrDuplicateKey if the
// address is already tracked.
func (s *WalletStore) Insert(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.Address]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	walletCopy := *w
	s.data[w.Address] = &walletCopy
	return nil
}

// GetByAddress retrieves a wallet by address.
func (s *WalletStore) GetByAddress(_ context.Context, address string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	walletCopy := *w
	return &walletCopy, nil
}

// GetByInfluencer retrieves all wallets of an influencer handle.
func (s *WalletStore) GetByInfluencer(_ context.Context, influencer string) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Wallet
	for _, w := range s.data {
		if w.Influencer == influencer {
			walletCopy := *w
			result = append(result, &walletCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}

// List retrieves every tracked wallet.
func (s *WalletStore) List(_ context.Context) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Wallet, 0, len(s.data))
	for _, w := range s.data {
		walletCopy := *w
		result = append(result, &walletCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}

// Influencers retrieves the distinct influencer handles.
func (s *WalletStore) Influencers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []string
	for _, w := range s.data {
		if _, ok := seen[w.Influencer]; ok {
			continue
		}
		seen[w.Influencer] = struct{}{}
		result = append(result, w.Influencer)
	}

	sort.Strings(result)
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.WalletStore = (*WalletStore)(nil)
