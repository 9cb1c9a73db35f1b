package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new tracked wallet. Returns ErrDuplicateKey if the
// address is already tracked.
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	query := `
		INSERT INTO sol_wallet (wallet, "user", link, wallet_type)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, w.Address, w.Influencer, w.ProfileLink, string(w.Cohort))
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByAddress retrieves a wallet by address. Returns ErrNotFound if not
// tracked.
func (s *WalletStore) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	query := `
		SELECT wallet, "user", link, wallet_type
		FROM sol_wallet
		WHERE wallet = $1
	`

	var w domain.Wallet
	var cohort string
	err := s.pool.QueryRow(ctx, query, address).Scan(&w.Address, &w.Influencer, &w.ProfileLink, &cohort)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by address: %w", err)
	}
	w.Cohort = domain.Cohort(cohort)
	return &w, nil
}

// GetByInfluencer retrieves all wallets of an influencer handle, ordered
// by address.
func (s *WalletStore) GetByInfluencer(ctx context.Context, influencer string) ([]*domain.Wallet, error) {
	query := `
		SELECT wallet, "user", link, wallet_type
		FROM sol_wallet
		WHERE "user" = $1
		ORDER BY wallet ASC
	`

	rows, err := s.pool.Query(ctx, query, influencer)
	if err != nil {
		return nil, fmt.Errorf("get wallets by influencer: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// List retrieves every tracked wallet, ordered by address.
func (s *WalletStore) List(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT wallet, "user", link, wallet_type
		FROM sol_wallet
		ORDER BY wallet ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// Influencers retrieves the distinct influencer handles.
func (s *WalletStore) Influencers(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT "user" FROM sol_wallet ORDER BY "user" ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list influencers: %w", err)
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, fmt.Errorf("scan influencer row: %w", err)
		}
		handles = append(handles, handle)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate influencer rows: %w", err)
	}

	return handles, nil
}

// scanWallets scans multiple rows into a slice of Wallet.
func scanWallets(rows pgx.Rows) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet

	for rows.Next() {
		var w domain.Wallet
		var cohort string

		if err := rows.Scan(&w.Address, &w.Influencer, &w.ProfileLink, &cohort); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		w.Cohort = domain.Cohort(cohort)
		wallets = append(wallets, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}

	return wallets, nil
}
