package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// SubscriberStore is an in-memory implementation of storage.SubscriberStore.
type SubscriberStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.Subscriber
}

// NewSubscriberStore creates a new in-memory subscriber store.
func NewSubscriberStore() *SubscriberStore {
	return &SubscriberStore{
		data: make(map[int64]*domain.Subscriber),
	}
}

// Upsert inserts or refreshes a subscriber row.
func (s *SubscriberStore) Upsert(_ context.Context, sub *domain.Subscriber) error {
	if sub == nil || sub.UserID == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subCopy := *sub
	s.data[sub.UserID] = &subCopy
	return nil
}

// GetByID retrieves a subscriber.
func (s *SubscriberStore) GetByID(_ context.Context, userID int64) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, exists := s.data[userID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	subCopy := *sub
	return &subCopy, nil
}

// WithNotifications retrieves subscribers with either notify bit set.
func (s *SubscriberStore) WithNotifications(_ context.Context) ([]*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Subscriber
	for _, sub := range s.data {
		if sub.NotifyInfluencer || sub.NotifySmart {
			subCopy := *sub
			result = append(result, &subCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})

	return result, nil
}

// RemoveExpired deletes subscribers whose payment date is before the cutoff.
func (s *SubscriberStore) RemoveExpired(_ context.Context, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sub := range s.data {
		if sub.PaymentDate.Before(before) {
			delete(s.data, id)
		}
	}
	return nil
}

// Verify interface compliance at compile time.
var _ storage.SubscriberStore = (*SubscriberStore)(nil)
