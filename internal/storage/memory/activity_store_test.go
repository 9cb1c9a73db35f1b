package memory

import (
	"context"
	"testing"
	"time"

	"solana-wallet-radar/internal/domain"
)

func event(wallet, token string, ts time.Time) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		WalletAddress: wallet,
		TokenAddress:  token,
		Amount:        1500.0,
		Timestamp:     ts,
		Kind:          domain.ActivitySwap,
	}
}

func TestActivityStore_DeleteBefore(t *testing.T) {
	store := NewActivityStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Append(ctx, event("w1", "tok1", now.Add(-25*time.Hour))); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, event("w1", "tok2", now.Add(-time.Hour))); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if err := store.DeleteBefore(ctx, now.Add(-24*time.Hour)); err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}

	pairs, err := store.SeenPairs(ctx, "w1")
	if err != nil {
		t.Fatalf("SeenPairs failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 surviving event, got %d", len(pairs))
	}
	for key := range pairs {
		if key.Token != "tok2" {
			t.Errorf("wrong survivor: %s", key.Token)
		}
	}
}

func TestActivityStore_TokensBoughtByMoreThan(t *testing.T) {
	store := NewActivityStore()
	ctx := context.Background()
	now := time.Now().UTC()

	// tok1: three distinct wallets; tok2: one wallet twice
	for i, w := range []string{"w1", "w2", "w3"} {
		if err := store.Append(ctx, event(w, "tok1", now.Add(-time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := store.Append(ctx, event("w1", "tok2", now)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, event("w1", "tok2", now.Add(-time.Minute))); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	tokens, err := store.TokensBoughtByMoreThan(ctx, 2)
	if err != nil {
		t.Fatalf("TokensBoughtByMoreThan failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "tok1" {
		t.Errorf("expected [tok1], got %v", tokens)
	}

	wallets, err := store.DistinctWalletsForToken(ctx, "tok1")
	if err != nil {
		t.Fatalf("DistinctWalletsForToken failed: %v", err)
	}
	if len(wallets) != 3 {
		t.Errorf("expected 3 distinct wallets, got %v", wallets)
	}
}

func TestActivityStore_SeenPairsPerWallet(t *testing.T) {
	store := NewActivityStore()
	ctx := context.Background()
	ts := time.Unix(1700000000, 0).UTC()

	if err := store.Append(ctx, event("w1", "tok1", ts)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, event("w2", "tok1", ts)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	pairs, err := store.SeenPairs(ctx, "w1")
	if err != nil {
		t.Fatalf("SeenPairs failed: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair for w1, got %d", len(pairs))
	}
	if _, ok := pairs[domain.TokenTime{Token: "tok1", Unix: ts.Unix()}]; !ok {
		t.Error("expected (tok1, ts) pair present")
	}
}
