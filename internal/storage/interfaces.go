package storage

import (
	"context"
	"time"

	"solana-wallet-radar/internal/domain"
)

// WalletStore provides access to sol_wallet storage.
type WalletStore interface {
	// Insert adds a new tracked wallet. Returns ErrDuplicateKey if the
	// address is already tracked.
	Insert(ctx context.Context, w *domain.Wallet) error

	// GetByAddress retrieves a wallet by address. Returns ErrNotFound if
	// not tracked.
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)

	// GetByInfluencer retrieves all wallets of an influencer handle.
	GetByInfluencer(ctx context.Context, influencer string) ([]*domain.Wallet, error)

	// List retrieves every tracked wallet.
	List(ctx context.Context) ([]*domain.Wallet, error)

	// Influencers retrieves the distinct influencer handles.
	Influencers(ctx context.Context) ([]string, error)
}

// HoldingStore provides access to token_data storage.
type HoldingStore interface {
	// Insert adds a new holding row for (wallet, token).
	Insert(ctx context.Context, h *domain.TokenHolding) error

	// Update overwrites name, amount and value of an existing holding.
	Update(ctx context.Context, h *domain.TokenHolding) error

	// Delete removes the holding for (wallet, token).
	Delete(ctx context.Context, wallet, token string) error

	// MintsForWallet retrieves the set of token addresses currently held
	// by a wallet.
	MintsForWallet(ctx context.Context, wallet string) (map[string]struct{}, error)

	// GetByToken retrieves every holding of a token across wallets.
	GetByToken(ctx context.Context, token string) ([]*domain.TokenHolding, error)

	// TokenName retrieves a display name recorded for the token.
	// Returns ErrNotFound if no wallet holds it.
	TokenName(ctx context.Context, token string) (string, error)
}

// ActivityStore provides access to the infl_buys sliding activity log.
type ActivityStore interface {
	// Append records an activity event. The log has no primary key.
	Append(ctx context.Context, e *domain.ActivityEvent) error

	// DeleteBefore evicts events with timestamp < cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) error

	// SeenPairs retrieves the (token, timestamp) pairs already logged for
	// a wallet, for ingest dedupe.
	SeenPairs(ctx context.Context, wallet string) (map[domain.TokenTime]struct{}, error)

	// TokensBoughtByMoreThan retrieves tokens whose events span strictly
	// more than k distinct wallets.
	TokensBoughtByMoreThan(ctx context.Context, k int) ([]string, error)

	// DistinctWalletsForToken retrieves the distinct wallets with events
	// for a token.
	DistinctWalletsForToken(ctx context.Context, token string) ([]string, error)
}

// NotifiedTokenStore provides access to the notified_tokens suppression set.
type NotifiedTokenStore interface {
	// Add marks a token as notified. Returns ErrDuplicateKey if already
	// marked.
	Add(ctx context.Context, token string) error

	// IsNotified reports whether a token has been alerted on.
	IsNotified(ctx context.Context, token string) (bool, error)

	// Remove clears one token, or every token when token is empty.
	// Operator-invoked only; the pipeline never auto-clears.
	Remove(ctx context.Context, token string) error
}

// SubscriberStore provides access to users storage.
type SubscriberStore interface {
	// Upsert inserts or refreshes a subscriber row.
	Upsert(ctx context.Context, s *domain.Subscriber) error

	// GetByID retrieves a subscriber. Returns ErrNotFound if unknown.
	GetByID(ctx context.Context, userID int64) (*domain.Subscriber, error)

	// WithNotifications retrieves subscribers with either notify bit set.
	WithNotifications(ctx context.Context) ([]*domain.Subscriber, error)

	// RemoveExpired deletes subscribers whose payment date is before the
	// given cutoff.
	RemoveExpired(ctx context.Context, before time.Time) error
}

// StatsStore provides access to data_wallet storage.
type StatsStore interface {
	// Upsert inserts or overwrites the stats row for a wallet.
	Upsert(ctx context.Context, s *domain.WalletStats) error

	// GetByWallet retrieves stats for a wallet. Returns ErrNotFound when
	// the offline job has not produced a row.
	GetByWallet(ctx context.Context, wallet string) (*domain.WalletStats, error)
}
