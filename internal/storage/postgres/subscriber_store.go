package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// SubscriberStore implements storage.SubscriberStore using PostgreSQL.
type SubscriberStore struct {
	pool *Pool
}

// NewSubscriberStore creates a new SubscriberStore.
func NewSubscriberStore(pool *Pool) *SubscriberStore {
	return &SubscriberStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SubscriberStore = (*SubscriberStore)(nil)

// Upsert inserts or refreshes a subscriber row.
func (s *SubscriberStore) Upsert(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO users (user_id, notify_infl, notify_smart, payment_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			notify_infl = EXCLUDED.notify_infl,
			notify_smart = EXCLUDED.notify_smart,
			payment_date = EXCLUDED.payment_date
	`

	_, err := s.pool.Exec(ctx, query,
		sub.UserID, sub.NotifyInfluencer, sub.NotifySmart, sub.PaymentDate.UTC())
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

// GetByID retrieves a subscriber. Returns ErrNotFound if unknown.
func (s *SubscriberStore) GetByID(ctx context.Context, userID int64) (*domain.Subscriber, error) {
	query := `
		SELECT user_id, notify_infl, notify_smart, payment_date
		FROM users
		WHERE user_id = $1
	`

	var sub domain.Subscriber
	err := s.pool.QueryRow(ctx, query, userID).
		Scan(&sub.UserID, &sub.NotifyInfluencer, &sub.NotifySmart, &sub.PaymentDate)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return &sub, nil
}

// WithNotifications retrieves subscribers with either notify bit set,
// ordered by user id.
func (s *SubscriberStore) WithNotifications(ctx context.Context) ([]*domain.Subscriber, error) {
	query := `
		SELECT user_id, notify_infl, notify_smart, payment_date
		FROM users
		WHERE notify_infl = TRUE OR notify_smart = TRUE
		ORDER BY user_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get subscribers with notifications: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		err := rows.Scan(&sub.UserID, &sub.NotifyInfluencer, &sub.NotifySmart, &sub.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber row: %w", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriber rows: %w", err)
	}

	return subs, nil
}

// RemoveExpired deletes subscribers whose payment date is before the cutoff.
func (s *SubscriberStore) RemoveExpired(ctx context.Context, before time.Time) error {
	query := `DELETE FROM users WHERE payment_date < $1`

	if _, err := s.pool.Exec(ctx, query, before.UTC()); err != nil {
		return fmt.Errorf("remove expired subscribers: %w", err)
	}
	return nil
}
