package memory

import (
	"context"
	"sort"
	"sync"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

type holdingKey struct {
	wallet string
	token  string
}

// HoldingStore is an in-memory implementation of storage.HoldingStore.
type HoldingStore struct {
	mu   sync.RWMutex
	data map[holdingKey]*domain.TokenHolding
}

// NewHoldingStore creates a new in-memory holding store.
func NewHoldingStore() *HoldingStore {
	return &HoldingStore{
		data: make(map[holdingKey]*domain.TokenHolding),
	}
}

// Insert adds a new holding row for (wallet, token).
func (s *HoldingStore) Insert(_ context.Context, h *domain.TokenHolding) error {
	if h == nil || h.WalletAddress == "" || h.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdingKey{wallet: h.WalletAddress, token: h.TokenAddress}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	holdingCopy := *h
	s.data[key] = &holdingCopy
	return nil
}

// Update overwrites name, amount and value of an existing holding.
func (s *HoldingStore) Update(_ context.Context, h *domain.TokenHolding) error {
	if h == nil || h.WalletAddress == "" || h.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := holdingKey{wallet: h.WalletAddress, token: h.TokenAddress}
	if _, exists := s.data[key]; !exists {
		return storage.ErrNotFound
	}

	holdingCopy := *h
	s.data[key] = &holdingCopy
	return nil
}

// Delete removes the holding for (wallet, token).
func (s *HoldingStore) Delete(_ context.Context, wallet, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, holdingKey{wallet: wallet, token: token})
	return nil
}

// MintsForWallet retrieves the set of token addresses a wallet holds.
func (s *HoldingStore) MintsForWallet(_ context.Context, wallet string) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]struct{})
	for key := range s.data {
		if key.wallet == wallet {
			result[key.token] = struct{}{}
		}
	}
	return result, nil
}

// GetByToken retrieves every holding of a token across wallets.
func (s *HoldingStore) GetByToken(_ context.Context, token string) ([]*domain.TokenHolding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenHolding
	for key, h := range s.data {
		if key.token == token {
			holdingCopy := *h
			result = append(result, &holdingCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].WalletAddress < result[j].WalletAddress
	})

	return result, nil
}

// TokenName retrieves a display name recorded for the token.
func (s *HoldingStore) TokenName(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for key, h := range s.data {
		if key.token == token {
			return h.TokenName, nil
		}
	}
	return "", storage.ErrNotFound
}

// Verify interface compliance at compile time.
var _ storage.HoldingStore = (*HoldingStore)(nil)
