// Package ingest maintains the sliding 24 hour activity log from the
// indexer transaction feed.
package ingest

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-wallet-radar/internal/clients/helius"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/observability"
)

// DefaultInterval is the tick period of the ingest loop.
const DefaultInterval = 60 * time.Second

// Indexer provides the parsed transaction feed.
type Indexer interface {
	Transactions(ctx context.Context, wallet, before string) []helius.Transaction
}

// Options configures a Worker.
type Options struct {
	Gateway *gateway.Gateway
	Indexer Indexer
	Logger  *zap.Logger

	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time
}

// Worker polls the indexer per wallet and appends accepted activity
// events. The pagination cursor lives in memory only, so a restart
// re-reads the newest page once and the dedupe rule absorbs it.
type Worker struct {
	gw      *gateway.Gateway
	indexer Indexer
	log     *zap.Logger
	clock   func() time.Time

	mu      sync.Mutex
	cursors map[string]string
}

// NewWorker creates an ingest Worker.
func NewWorker(opts Options) *Worker {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Worker{
		gw:      opts.Gateway,
		indexer: opts.Indexer,
		log:     log,
		clock:   clock,
		cursors: make(map[string]string),
	}
}

// Tick runs one ingest pass: evict the expired tail of the log, then
// fetch and parse the latest page for every tracked wallet.
func (w *Worker) Tick(ctx context.Context) error {
	now := w.clock().UTC()
	w.gw.EvictActivityBefore(ctx, now.Add(-domain.ActivityWindow))

	wallets := w.gw.ListTrackedWallets(ctx)
	if len(wallets) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, wallet := range wallets {
		wallet := wallet
		g.Go(func() error {
			w.ingestWallet(gctx, wallet.Address, now)
			return nil
		})
	}
	return g.Wait()
}

func (w *Worker) ingestWallet(ctx context.Context, wallet string, now time.Time) {
	page := w.indexer.Transactions(ctx, wallet, w.cursor(wallet))
	if len(page) == 0 {
		observability.RecordIndexerPage("empty")
		return
	}
	observability.RecordIndexerPage("ok")
	w.setCursor(wallet, page[len(page)-1].Signature)

	seen := w.gw.SeenActivity(ctx, wallet)

	appended := 0
	for _, tx := range page {
		event, ok := parseDescription(wallet, tx.Type, tx.Description, tx.Timestamp, now)
		if !ok {
			continue
		}
		key := event.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		w.gw.AppendActivity(ctx, event)
		seen[key] = struct{}{}
		appended++
	}

	if appended > 0 {
		observability.RecordActivityIngested(appended)
		w.log.Info("activity ingested",
			zap.String("wallet", wallet),
			zap.Int("events", appended),
			zap.Int("page", len(page)))
	}
}

func (w *Worker) cursor(wallet string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursors[wallet]
}

func (w *Worker) setCursor(wallet, sig string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursors[wallet] = sig
}
