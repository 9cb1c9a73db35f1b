// Package gateway is the persistence facade consumed by the workers.
//
// Worker-facing methods never return errors. A failed store call is
// logged and surfaced as a zero value, an empty slice or false, so a
// flaky database degrades a single tick instead of killing a loop.
// Operator-facing methods (AddWallet, ImportStats, ClearNotified) do
// return errors since the caller is a human at a terminal.
package gateway

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

// Options configures a Gateway.
type Options struct {
	Wallets     storage.WalletStore
	Holdings    storage.HoldingStore
	Activity    storage.ActivityStore
	Notified    storage.NotifiedTokenStore
	Subscribers storage.SubscriberStore
	Stats       storage.StatsStore
	Logger      *zap.Logger
}

// Gateway wraps the six stores behind the call surface the workers use.
type Gateway struct {
	wallets     storage.WalletStore
	holdings    storage.HoldingStore
	activity    storage.ActivityStore
	notified    storage.NotifiedTokenStore
	subscribers storage.SubscriberStore
	stats       storage.StatsStore
	log         *zap.Logger
}

// New creates a Gateway.
func New(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		wallets:     opts.Wallets,
		holdings:    opts.Holdings,
		activity:    opts.Activity,
		notified:    opts.Notified,
		subscribers: opts.Subscribers,
		stats:       opts.Stats,
		log:         log,
	}
}

// ListTrackedWallets returns every tracked wallet, or an empty slice on
// storage failure.
func (g *Gateway) ListTrackedWallets(ctx context.Context) []*domain.Wallet {
	wallets, err := g.wallets.List(ctx)
	if err != nil {
		g.log.Error("list tracked wallets", zap.Error(err))
		return nil
	}
	return wallets
}

// WalletByAddress looks up a tracked wallet. The bool is false when the
// address is not tracked or the read failed.
func (g *Gateway) WalletByAddress(ctx context.Context, address string) (*domain.Wallet, bool) {
	w, err := g.wallets.GetByAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Error("get wallet by address", zap.String("wallet", address), zap.Error(err))
		}
		return nil, false
	}
	return w, true
}

// WalletsOfInfluencer returns the wallets attributed to an influencer
// handle.
func (g *Gateway) WalletsOfInfluencer(ctx context.Context, influencer string) []*domain.Wallet {
	wallets, err := g.wallets.GetByInfluencer(ctx, influencer)
	if err != nil {
		g.log.Error("get wallets by influencer", zap.String("influencer", influencer), zap.Error(err))
		return nil
	}
	return wallets
}

// Influencers returns the distinct influencer handles.
func (g *Gateway) Influencers(ctx context.Context) []string {
	handles, err := g.wallets.Influencers(ctx)
	if err != nil {
		g.log.Error("list influencers", zap.Error(err))
		return nil
	}
	return handles
}

// AddWallet registers a wallet for tracking.
func (g *Gateway) AddWallet(ctx context.Context, w *domain.Wallet) error {
	return g.wallets.Insert(ctx, w)
}

// UpsertHolding inserts a holding, or overwrites the existing row when
// the wallet already holds the mint.
func (g *Gateway) UpsertHolding(ctx context.Context, h *domain.TokenHolding) {
	err := g.holdings.Insert(ctx, h)
	if errors.Is(err, storage.ErrDuplicateKey) {
		err = g.holdings.Update(ctx, h)
	}
	if err != nil {
		g.log.Error("upsert holding",
			zap.String("wallet", h.WalletAddress),
			zap.String("token", h.TokenAddress),
			zap.Error(err))
	}
}

// DeleteHolding removes the holding for (wallet, token).
func (g *Gateway) DeleteHolding(ctx context.Context, wallet, token string) {
	if err := g.holdings.Delete(ctx, wallet, token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		g.log.Error("delete holding",
			zap.String("wallet", wallet),
			zap.String("token", token),
			zap.Error(err))
	}
}

// HoldingsFor returns the set of mints currently recorded for a wallet.
func (g *Gateway) HoldingsFor(ctx context.Context, wallet string) map[string]struct{} {
	mints, err := g.holdings.MintsForWallet(ctx, wallet)
	if err != nil {
		g.log.Error("list holdings", zap.String("wallet", wallet), zap.Error(err))
		return map[string]struct{}{}
	}
	return mints
}

// HoldersOfToken returns every recorded holding of a token across the
// tracked wallets.
func (g *Gateway) HoldersOfToken(ctx context.Context, token string) []*domain.TokenHolding {
	holdings, err := g.holdings.GetByToken(ctx, token)
	if err != nil {
		g.log.Error("get holders of token", zap.String("token", token), zap.Error(err))
		return nil
	}
	return holdings
}

// TokenNameFor returns the display name recorded for a token, or the
// empty string when no wallet holds it.
func (g *Gateway) TokenNameFor(ctx context.Context, token string) string {
	name, err := g.holdings.TokenName(ctx, token)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Error("get token name", zap.String("token", token), zap.Error(err))
		}
		return ""
	}
	return name
}

// AppendActivity records an activity event.
func (g *Gateway) AppendActivity(ctx context.Context, e *domain.ActivityEvent) {
	if err := g.activity.Append(ctx, e); err != nil {
		g.log.Error("append activity",
			zap.String("wallet", e.WalletAddress),
			zap.String("token", e.TokenAddress),
			zap.Error(err))
	}
}

// SeenActivity returns the (token, timestamp) pairs already logged for a
// wallet.
func (g *Gateway) SeenActivity(ctx context.Context, wallet string) map[domain.TokenTime]struct{} {
	seen, err := g.activity.SeenPairs(ctx, wallet)
	if err != nil {
		g.log.Error("load seen activity", zap.String("wallet", wallet), zap.Error(err))
		return map[domain.TokenTime]struct{}{}
	}
	return seen
}

// EvictActivityBefore drops activity events older than the cutoff.
func (g *Gateway) EvictActivityBefore(ctx context.Context, cutoff time.Time) {
	if err := g.activity.DeleteBefore(ctx, cutoff); err != nil {
		g.log.Error("evict activity", zap.Time("cutoff", cutoff), zap.Error(err))
	}
}

// TokensBoughtByMoreThan returns tokens bought by strictly more than k
// distinct tracked wallets inside the activity window.
func (g *Gateway) TokensBoughtByMoreThan(ctx context.Context, k int) []string {
	tokens, err := g.activity.TokensBoughtByMoreThan(ctx, k)
	if err != nil {
		g.log.Error("query convergent tokens", zap.Int("threshold", k), zap.Error(err))
		return nil
	}
	return tokens
}

// DistinctWalletsForToken returns the distinct wallets that bought a
// token inside the activity window.
func (g *Gateway) DistinctWalletsForToken(ctx context.Context, token string) []string {
	wallets, err := g.activity.DistinctWalletsForToken(ctx, token)
	if err != nil {
		g.log.Error("query token buyers", zap.String("token", token), zap.Error(err))
		return nil
	}
	return wallets
}

// IsNotified reports whether a token has already been alerted on. A
// failed read counts as notified so a flaky database cannot cause a
// duplicate alert.
func (g *Gateway) IsNotified(ctx context.Context, token string) bool {
	notified, err := g.notified.IsNotified(ctx, token)
	if err != nil {
		g.log.Error("check notified", zap.String("token", token), zap.Error(err))
		return true
	}
	return notified
}

// MarkNotified marks a token as alerted on. Returns true only when this
// call won the mark; dispatch must not proceed otherwise.
func (g *Gateway) MarkNotified(ctx context.Context, token string) bool {
	err := g.notified.Add(ctx, token)
	if err == nil {
		return true
	}
	if !errors.Is(err, storage.ErrDuplicateKey) {
		g.log.Error("mark notified", zap.String("token", token), zap.Error(err))
	}
	return false
}

// ClearNotified clears one token from the suppression set, or all of
// them when token is empty.
func (g *Gateway) ClearNotified(ctx context.Context, token string) error {
	return g.notified.Remove(ctx, token)
}

// SubscribersWithAnyNotify returns subscribers with at least one notify
// bit set.
func (g *Gateway) SubscribersWithAnyNotify(ctx context.Context) []*domain.Subscriber {
	subs, err := g.subscribers.WithNotifications(ctx)
	if err != nil {
		g.log.Error("list subscribers", zap.Error(err))
		return nil
	}
	return subs
}

// UpsertSubscriber inserts or refreshes a subscriber row.
func (g *Gateway) UpsertSubscriber(ctx context.Context, s *domain.Subscriber) error {
	return g.subscribers.Upsert(ctx, s)
}

// RemoveExpiredSubscribers drops subscribers whose payment is older than
// the subscription term, measured from now.
func (g *Gateway) RemoveExpiredSubscribers(ctx context.Context, now time.Time) {
	if err := g.subscribers.RemoveExpired(ctx, now.Add(-domain.SubscriptionTerm)); err != nil {
		g.log.Error("remove expired subscribers", zap.Error(err))
	}
}

// StatsFor returns the stats row for a wallet, or nil when the offline
// job has not produced one. Callers substitute the defaults.
func (g *Gateway) StatsFor(ctx context.Context, wallet string) *domain.WalletStats {
	stats, err := g.stats.GetByWallet(ctx, wallet)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			g.log.Error("get wallet stats", zap.String("wallet", wallet), zap.Error(err))
		}
		return nil
	}
	return stats
}

// ImportStats overwrites the stats row for a wallet.
func (g *Gateway) ImportStats(ctx context.Context, stats *domain.WalletStats) error {
	return g.stats.Upsert(ctx, stats)
}
