package postgres

import (
	"context"
	"fmt"

	"solana-wallet-radar/internal/storage"
)

// NotifiedTokenStore implements storage.NotifiedTokenStore using PostgreSQL.
type NotifiedTokenStore struct {
	pool *Pool
}

// NewNotifiedTokenStore creates a new NotifiedTokenStore.
func NewNotifiedTokenStore(pool *Pool) *NotifiedTokenStore {
	return &NotifiedTokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NotifiedTokenStore = (*NotifiedTokenStore)(nil)

// Add marks a token as notified. Returns ErrDuplicateKey if already marked.
func (s *NotifiedTokenStore) Add(ctx context.Context, token string) error {
	query := `INSERT INTO notified_tokens (token) VALUES ($1)`

	_, err := s.pool.Exec(ctx, query, token)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("add notified token: %w", err)
	}
	return nil
}

// IsNotified reports whether a token has been alerted on.
func (s *NotifiedTokenStore) IsNotified(ctx context.Context, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM notified_tokens WHERE token = $1)`

	var notified bool
	if err := s.pool.QueryRow(ctx, query, token).Scan(&notified); err != nil {
		return false, fmt.Errorf("check notified token: %w", err)
	}
	return notified, nil
}

// Remove clears one token, or every token when token is empty.
func (s *NotifiedTokenStore) Remove(ctx context.Context, token string) error {
	if token == "" {
		if _, err := s.pool.Exec(ctx, `DELETE FROM notified_tokens`); err != nil {
			return fmt.Errorf("truncate notified tokens: %w", err)
		}
		return nil
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM notified_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("remove notified token: %w", err)
	}
	return nil
}
