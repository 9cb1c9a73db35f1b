package postgres

import (
	"context"
	"fmt"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// StatsStore implements storage.StatsStore using PostgreSQL.
type StatsStore struct {
	pool *Pool
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(pool *Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StatsStore = (*StatsStore)(nil)

// Upsert inserts or overwrites the stats row for a wallet.
func (s *StatsStore) Upsert(ctx context.Context, stats *domain.WalletStats) error {
	query := `
		INSERT INTO data_wallet (wallet, pnl, wr)
		VALUES ($1, $2, $3)
		ON CONFLICT (wallet)
		DO UPDATE SET pnl = EXCLUDED.pnl, wr = EXCLUDED.wr
	`

	_, err := s.pool.Exec(ctx, query, stats.WalletAddress, stats.PNL, stats.WinRate)
	if err != nil {
		return fmt.Errorf("upsert wallet stats: %w", err)
	}
	return nil
}

// GetByWallet retrieves stats for a wallet. Returns ErrNotFound when the
// offline job has not produced a row.
func (s *StatsStore) GetByWallet(ctx context.Context, wallet string) (*domain.WalletStats, error) {
	query := `SELECT wallet, pnl, wr FROM data_wallet WHERE wallet = $1`

	var stats domain.WalletStats
	err := s.pool.QueryRow(ctx, query, wallet).Scan(&stats.WalletAddress, &stats.PNL, &stats.WinRate)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet stats: %w", err)
	}
	return &stats, nil
}
