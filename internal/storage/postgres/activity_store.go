package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// ActivityStore implements storage.ActivityStore using PostgreSQL.
type ActivityStore struct {
	pool *Pool
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(pool *Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// Append records an activity event. The log has no primary key.
func (s *ActivityStore) Append(ctx context.Context, e *domain.ActivityEvent) error {
	query := `
		INSERT INTO infl_buys (wallet, token, amount_token, timestamp, operation_type)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		e.WalletAddress, e.TokenAddress, e.Amount, e.Timestamp.UTC(), string(e.Kind))
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// DeleteBefore evicts events with timestamp < cutoff.
func (s *ActivityStore) DeleteBefore(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM infl_buys WHERE timestamp < $1`

	if _, err := s.pool.Exec(ctx, query, cutoff.UTC()); err != nil {
		return fmt.Errorf("evict activity: %w", err)
	}
	return nil
}

// SeenPairs retrieves the (token, timestamp) pairs logged for a wallet.
func (s *ActivityStore) SeenPairs(ctx context.Context, wallet string) (map[domain.TokenTime]struct{}, error) {
	query := `SELECT token, timestamp FROM infl_buys WHERE wallet = $1`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get seen pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[domain.TokenTime]struct{})
	for rows.Next() {
		var token string
		var ts time.Time
		if err := rows.Scan(&token, &ts); err != nil {
			return nil, fmt.Errorf("scan seen pair: %w", err)
		}
		pairs[domain.TokenTime{Token: token, Unix: ts.Unix()}] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seen pairs: %w", err)
	}

	return pairs, nil
}

// TokensBoughtByMoreThan retrieves tokens whose events span strictly more
// than k distinct wallets.
func (s *ActivityStore) TokensBoughtByMoreThan(ctx context.Context, k int) ([]string, error) {
	query := `
		SELECT token
		FROM infl_buys
		GROUP BY token
		HAVING COUNT(DISTINCT wallet) > $1
		ORDER BY token ASC
	`

	rows, err := s.pool.Query(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("get convergent tokens: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}

	return tokens, nil
}

// DistinctWalletsForToken retrieves the distinct wallets with events for
// a token.
func (s *ActivityStore) DistinctWalletsForToken(ctx context.Context, token string) ([]string, error) {
	query := `
		SELECT DISTINCT wallet
		FROM infl_buys
		WHERE token = $1
		ORDER BY wallet ASC
	`

	rows, err := s.pool.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("get wallets for token: %w", err)
	}
	defer rows.Close()

	var wallets []string
	for rows.Next() {
		var wallet string
		if err := rows.Scan(&wallet); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}

	return wallets, nil
}
