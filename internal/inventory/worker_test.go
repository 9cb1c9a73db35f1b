package inventory

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/clients/solanarpc"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/storage/memory"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

type fakeBalances struct {
	accounts map[string][]solanarpc.TokenAccount
	err      error
}

func (f *fakeBalances) GetTokenAccountsByOwner(_ context.Context, wallet string) ([]solanarpc.TokenAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts[wallet], nil
}

type fakePricer struct {
	prices map[string]float64
	names  map[string]string
}

func (f *fakePricer) Search(_ context.Context, mint string) (string, float64, bool) {
	price, ok := f.prices[mint]
	if !ok {
		return "", 0, false
	}
	return f.names[mint], price, true
}

func newInventoryFixture(balances BalanceReader, pricer Pricer) (*Worker, *gateway.Gateway) {
	gw := gateway.New(gateway.Options{
		Wallets:     memory.NewWalletStore(),
		Holdings:    memory.NewHoldingStore(),
		Activity:    memory.NewActivityStore(),
		Notified:    memory.NewNotifiedTokenStore(),
		Subscribers: memory.NewSubscriberStore(),
		Stats:       memory.NewStatsStore(),
		Logger:      zap.NewNop(),
	})
	w := NewWorker(Options{Gateway: gw, Balances: balances, Pricer: pricer})
	return w, gw
}

func trackWallet(t *testing.T, gw *gateway.Gateway) {
	t.Helper()
	err := gw.AddWallet(context.Background(), &domain.Wallet{
		Address: testWallet, Influencer: "ansem", Cohort: domain.CohortInfluencer,
	})
	if err != nil {
		t.Fatalf("add wallet: %v", err)
	}
}

func TestWorker_Tick_SnapshotLifecycle(t *testing.T) {
	balances := &fakeBalances{accounts: map[string][]solanarpc.TokenAccount{
		testWallet: {
			{Mint: "mint1", UIAmount: 1500},
			{Mint: "mint2", UIAmount: 0.005}, // dust
			{Mint: "mint3", UIAmount: 80},
		},
	}}
	pricer := &fakePricer{
		prices: map[string]float64{"mint1": 0.002, "mint3": 0.00001},
		names:  map[string]string{"mint1": "WIF", "mint3": "TINY"},
	}

	w, gw := newInventoryFixture(balances, pricer)
	trackWallet(t, gw)
	ctx := context.Background()

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	mints := gw.HoldingsFor(ctx, testWallet)
	// mint2 is dust, mint3 values out at 0.0008 SOL.
	if len(mints) != 1 {
		t.Fatalf("expected 1 holding, got %d: %v", len(mints), mints)
	}
	holders := gw.HoldersOfToken(ctx, "mint1")
	if len(holders) != 1 || holders[0].ValueInSOL != 3.0 {
		t.Fatalf("unexpected mint1 holding: %+v", holders)
	}

	// Wallet sells mint1 and acquires mint3 in size.
	balances.accounts[testWallet] = []solanarpc.TokenAccount{
		{Mint: "mint3", UIAmount: 100000},
	}

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	mints = gw.HoldingsFor(ctx, testWallet)
	if _, held := mints["mint1"]; held {
		t.Error("mint1 must be deleted after disappearing from chain")
	}
	if _, held := mints["mint3"]; !held {
		t.Error("mint3 must be inserted")
	}
}

func TestWorker_Tick_RPCFailureLeavesSnapshot(t *testing.T) {
	balances := &fakeBalances{err: errors.New("rpc down")}
	pricer := &fakePricer{}

	w, gw := newInventoryFixture(balances, pricer)
	trackWallet(t, gw)
	ctx := context.Background()

	gw.UpsertHolding(ctx, &domain.TokenHolding{
		WalletAddress: testWallet, TokenAddress: "mint1",
		TokenName: "WIF", TokenAmount: 100, ValueInSOL: 2,
	})

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if mints := gw.HoldingsFor(ctx, testWallet); len(mints) != 1 {
		t.Fatalf("snapshot must survive an RPC failure, got %v", mints)
	}
}

func TestWorker_Tick_EmptyPageLeavesSnapshot(t *testing.T) {
	balances := &fakeBalances{accounts: map[string][]solanarpc.TokenAccount{}}
	pricer := &fakePricer{}

	w, gw := newInventoryFixture(balances, pricer)
	trackWallet(t, gw)
	ctx := context.Background()

	gw.UpsertHolding(ctx, &domain.TokenHolding{
		WalletAddress: testWallet, TokenAddress: "mint1",
		TokenName: "WIF", TokenAmount: 100, ValueInSOL: 2,
	})

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if mints := gw.HoldingsFor(ctx, testWallet); len(mints) != 1 {
		t.Fatalf("snapshot must survive an empty balance page, got %v", mints)
	}
}

func TestWorker_Tick_UnpricedMintSkipped(t *testing.T) {
	balances := &fakeBalances{accounts: map[string][]solanarpc.TokenAccount{
		testWallet: {{Mint: "mint1", UIAmount: 1500}},
	}}
	pricer := &fakePricer{} // no prices at all

	w, gw := newInventoryFixture(balances, pricer)
	trackWallet(t, gw)
	ctx := context.Background()

	if err := w.Tick(ctx); err != nil {
		t.Fatalf("tick: %v", err)
	}

	if mints := gw.HoldingsFor(ctx, testWallet); len(mints) != 0 {
		t.Fatalf("unpriced mint must not be stored, got %v", mints)
	}
}
