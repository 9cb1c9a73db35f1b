package postgres

import (
	"context"
	"fmt"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// HoldingStore implements storage.HoldingStore using PostgreSQL.
type HoldingStore struct {
	pool *Pool
}

// NewHoldingStore creates a new HoldingStore.
func NewHoldingStore(pool *Pool) *HoldingStore {
	return &HoldingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.HoldingStore = (*HoldingStore)(nil)

// Insert adds a new holding row for (wallet, token).
func (s *HoldingStore) Insert(ctx context.Context, h *domain.TokenHolding) error {
	query := `
		INSERT INTO token_data (wallet, token_address, token_name, token_amount, total_in_sol)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		h.WalletAddress, h.TokenAddress, h.TokenName, h.TokenAmount, h.ValueInSOL)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert holding: %w", err)
	}
	return nil
}

// Update overwrites name, amount and value of an existing holding.
func (s *HoldingStore) Update(ctx context.Context, h *domain.TokenHolding) error {
	query := `
		UPDATE token_data
		SET token_name = $1, token_amount = $2, total_in_sol = $3
		WHERE wallet = $4 AND token_address = $5
	`

	tag, err := s.pool.Exec(ctx, query,
		h.TokenName, h.TokenAmount, h.ValueInSOL, h.WalletAddress, h.TokenAddress)
	if err != nil {
		return fmt.Errorf("update holding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes the holding for (wallet, token).
func (s *HoldingStore) Delete(ctx context.Context, wallet, token string) error {
	query := `DELETE FROM token_data WHERE wallet = $1 AND token_address = $2`

	if _, err := s.pool.Exec(ctx, query, wallet, token); err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}

// MintsForWallet retrieves the set of token addresses a wallet holds.
func (s *HoldingStore) MintsForWallet(ctx context.Context, wallet string) (map[string]struct{}, error) {
	query := `SELECT token_address FROM token_data WHERE wallet = $1`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get mints for wallet: %w", err)
	}
	defer rows.Close()

	mints := make(map[string]struct{})
	for rows.Next() {
		var mint string
		if err := rows.Scan(&mint); err != nil {
			return nil, fmt.Errorf("scan mint row: %w", err)
		}
		mints[mint] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mint rows: %w", err)
	}

	return mints, nil
}

// GetByToken retrieves every holding of a token across wallets, ordered
// by wallet.
func (s *HoldingStore) GetByToken(ctx context.Context, token string) ([]*domain.TokenHolding, error) {
	query := `
		SELECT wallet, token_address, token_name, token_amount, total_in_sol
		FROM token_data
		WHERE token_address = $1
		ORDER BY wallet ASC
	`

	rows, err := s.pool.Query(ctx, query, token)
	if err != nil {
		return nil, fmt.Errorf("get holdings by token: %w", err)
	}
	defer rows.Close()

	var holdings []*domain.TokenHolding
	for rows.Next() {
		var h domain.TokenHolding
		err := rows.Scan(&h.WalletAddress, &h.TokenAddress, &h.TokenName, &h.TokenAmount, &h.ValueInSOL)
		if err != nil {
			return nil, fmt.Errorf("scan holding row: %w", err)
		}
		holdings = append(holdings, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holding rows: %w", err)
	}

	return holdings, nil
}

// TokenName retrieves a display name recorded for the token. Returns
// ErrNotFound if no wallet holds it.
func (s *HoldingStore) TokenName(ctx context.Context, token string) (string, error) {
	query := `SELECT token_name FROM token_data WHERE token_address = $1 LIMIT 1`

	var name string
	err := s.pool.QueryRow(ctx, query, token).Scan(&name)
	if err != nil {
		if isNotFoundError(err) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("get token name: %w", err)
	}
	return name, nil
}
