// Package alert detects tokens bought by several tracked wallets at
// once and fans the alert out to subscribers.
package alert

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/observability"
)

// DefaultInterval is the tick period of the detector loop.
const DefaultInterval = 60 * time.Second

// ConvergenceThreshold is the distinct-wallet count a token must
// strictly exceed to become a candidate.
const ConvergenceThreshold = 2

// readAttempts bounds the re-reads of an unexpectedly empty result.
const readAttempts = 5

// TokenInfoClient resolves a mint to its ticker and market cap digits.
type TokenInfoClient interface {
	TokenInfo(ctx context.Context, mint string) (symbol, marketCapDigits string)
}

// Notifier delivers one rendered alert to one subscriber.
type Notifier interface {
	Send(ctx context.Context, userID int64, html string) error
}

// Options configures a Worker.
type Options struct {
	Gateway   *gateway.Gateway
	TokenInfo TokenInfoClient
	Notifier  Notifier
	Logger    *zap.Logger

	// RetryDelay is the pause between re-reads of an empty result.
	RetryDelay time.Duration
}

// Worker is the convergence detector.
type Worker struct {
	gw         *gateway.Gateway
	tokenInfo  TokenInfoClient
	notifier   Notifier
	log        *zap.Logger
	retryDelay time.Duration
}

// NewWorker creates a detector Worker.
func NewWorker(opts Options) *Worker {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	delay := opts.RetryDelay
	if delay == 0 {
		delay = 200 * time.Millisecond
	}
	return &Worker{
		gw:         opts.Gateway,
		tokenInfo:  opts.TokenInfo,
		notifier:   opts.Notifier,
		log:        log,
		retryDelay: delay,
	}
}

// Tick runs one detection pass.
func (w *Worker) Tick(ctx context.Context) error {
	tokens := w.readRetry(ctx, func() []string {
		return w.gw.TokensBoughtByMoreThan(ctx, ConvergenceThreshold)
	})

	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return err
		}
		if w.gw.IsNotified(ctx, token) {
			continue
		}
		w.processToken(ctx, token)
	}
	return nil
}

func (w *Worker) processToken(ctx context.Context, token string) {
	wallets := w.readRetry(ctx, func() []string {
		return w.gw.DistinctWalletsForToken(ctx, token)
	})
	if len(wallets) == 0 {
		return
	}

	symbol, digits := w.tokenInfo.TokenInfo(ctx, token)
	header := alertHeader(symbol, token, formatMarketCap(digits))

	var all, smart, infl strings.Builder
	all.WriteString(header)
	smart.WriteString(header)
	infl.WriteString(header)

	var allCount, smartCount, inflCount int

	for _, wallet := range wallets {
		info, ok := w.gw.WalletByAddress(ctx, wallet)
		if !ok {
			continue
		}
		line := walletLine(w.gw.StatsFor(ctx, wallet), info.Influencer, info.ProfileLink, wallet)

		allCount++
		all.WriteString(line)
		if info.Influencer == domain.SmartDegenHandle {
			smartCount++
			smart.WriteString(line)
		} else {
			inflCount++
			infl.WriteString(line)
		}
	}

	if allCount <= 2 && inflCount <= 2 && smartCount <= 1 {
		return
	}

	// Mark first so a dispatch crash cannot replay the alert.
	if !w.gw.MarkNotified(ctx, token) {
		return
	}

	observability.RecordConvergentToken()
	w.log.Info("convergent buy detected",
		zap.String("token", token),
		zap.Int("wallets", allCount),
		zap.Int("influencers", inflCount),
		zap.Int("smart", smartCount))

	w.dispatch(ctx, all.String(), infl.String(), smart.String(), allCount, inflCount, smartCount)
}

// dispatch routes one of the three rendered messages to each
// subscriber. The first matching branch wins; a subscriber with both
// bits set gets the combined list only when the token clears the full
// threshold.
func (w *Worker) dispatch(ctx context.Context, allMsg, inflMsg, smartMsg string, allCount, inflCount, smartCount int) {
	for _, sub := range w.gw.SubscribersWithAnyNotify(ctx) {
		var msg, audience string
		switch {
		case sub.NotifyInfluencer && sub.NotifySmart && allCount > 2:
			msg, audience = allMsg, "all"
		case sub.NotifyInfluencer && inflCount > 2:
			msg, audience = inflMsg, "influencer"
		case sub.NotifySmart && smartCount > 1:
			msg, audience = smartMsg, "smart"
		default:
			continue
		}

		if err := w.notifier.Send(ctx, sub.UserID, msg); err != nil {
			observability.RecordAlertFailure()
			w.log.Warn("alert delivery failed",
				zap.Int64("user_id", sub.UserID),
				zap.Error(err))
			continue
		}
		observability.RecordAlertDispatched(audience)
	}
}

// readRetry re-reads an empty result a few times before accepting it.
// The activity log is written concurrently and a read can race a
// just-committed batch.
func (w *Worker) readRetry(ctx context.Context, read func() []string) []string {
	var out []string
	for attempt := 0; attempt < readAttempts; attempt++ {
		out = read()
		if len(out) > 0 {
			return out
		}
		if attempt == readAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.retryDelay):
		}
	}
	return out
}
