package ingest

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/clients/helius"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/storage/memory"
)

type fakeIndexer struct {
	pages   map[string][]helius.Transaction
	befores map[string][]string
}

func (f *fakeIndexer) Transactions(_ context.Context, wallet, before string) []helius.Transaction {
	if f.befores == nil {
		f.befores = make(map[string][]string)
	}
	f.befores[wallet] = append(f.befores[wallet], before)
	return f.pages[wallet]
}

func newIngestFixture(indexer Indexer, clock func() time.Time) (*Worker, *gateway.Gateway) {
	gw := gateway.New(gateway.Options{
		Wallets:     memory.NewWalletStore(),
		Holdings:    memory.NewHoldingStore(),
		Activity:    memory.NewActivityStore(),
		Notified:    memory.NewNotifiedTokenStore(),
		Subscribers: memory.NewSubscriberStore(),
		Stats:       memory.NewStatsStore(),
		Logger:      zap.NewNop(),
	})
	w := NewWorker(Options{Gateway: gw, Indexer: indexer, Clock: clock})
	return w, gw
}

func TestWorker_Tick_AppendsAndDedupes(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	ts := now.Unix() - 600

	swapDesc := testWallet + " swapped 10.5 SOL for 50000.25 " + testMint
	page := []helius.Transaction{
		{Type: "SWAP", Description: swapDesc, Timestamp: ts, Signature: "sig1"},
		{Type: "SWAP", Description: swapDesc, Timestamp: ts, Signature: "sig2"}, // same (token, ts)
		{Type: "UNKNOWN", Description: "noise", Timestamp: ts, Signature: "sig3"},
	}
	indexer := &fakeIndexer{pages: map[string][]helius.Transaction{testWallet: page}}

	w, gw := newIngestFixture(indexer, func() time.Time { return now })
	ctx := context.Background()

	if err := gw.AddWallet(ctx, &domain.Wallet{Address: testWallet, Influencer: "ansem", Cohort: domain.CohortInfluencer}); err != nil {
		t.Fatalf("add wallet: %v", err)
	}

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	seen := gw.SeenActivity(ctx, testWallet)
	if len(seen) != 1 {
		t.Fatalf("expected 1 event after dedupe, got %d", len(seen))
	}

	// A second tick over the same page appends nothing new.
	if err := w.Tick(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if seen := gw.SeenActivity(ctx, testWallet); len(seen) != 1 {
		t.Fatalf("expected 1 event after second tick, got %d", len(seen))
	}
}

func TestWorker_Tick_CursorAdvances(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	page := []helius.Transaction{
		{Type: "SWAP", Description: "x", Timestamp: now.Unix(), Signature: "sigA"},
		{Type: "SWAP", Description: "y", Timestamp: now.Unix(), Signature: "sigB"},
	}
	indexer := &fakeIndexer{pages: map[string][]helius.Transaction{testWallet: page}}

	w, gw := newIngestFixture(indexer, func() time.Time { return now })
	ctx := context.Background()

	if err := gw.AddWallet(ctx, &domain.Wallet{Address: testWallet, Influencer: "ansem", Cohort: domain.CohortInfluencer}); err != nil {
		t.Fatalf("add wallet: %v", err)
	}

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	befores := indexer.befores[testWallet]
	if len(befores) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(befores))
	}
	if befores[0] != "" {
		t.Errorf("first fetch must have no cursor, got %q", befores[0])
	}
	if befores[1] != "sigB" {
		t.Errorf("second fetch must resume from sigB, got %q", befores[1])
	}
}

func TestWorker_Tick_EvictsExpired(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	indexer := &fakeIndexer{}

	w, gw := newIngestFixture(indexer, func() time.Time { return now })
	ctx := context.Background()

	gw.AppendActivity(ctx, &domain.ActivityEvent{
		WalletAddress: testWallet, TokenAddress: testMint,
		Amount: 5000, Timestamp: now.Add(-25 * time.Hour), Kind: domain.ActivitySwap,
	})

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if seen := gw.SeenActivity(ctx, testWallet); len(seen) != 0 {
		t.Fatalf("expected expired event evicted, got %d", len(seen))
	}
}
