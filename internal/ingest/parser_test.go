package ingest

import (
	"testing"
	"time"

	"solana-wallet-radar/internal/domain"
)

const (
	testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	testMint   = "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"
)

func TestParseDescription_Swap(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	desc := testWallet + " swapped 10.5 SOL for 50000.25 " + testMint

	event, ok := parseDescription(testWallet, "SWAP", desc, now.Unix()-3600, now)
	if !ok {
		t.Fatal("expected accept")
	}
	if event.WalletAddress != testWallet {
		t.Errorf("wallet = %s", event.WalletAddress)
	}
	if event.TokenAddress != testMint {
		t.Errorf("token = %s", event.TokenAddress)
	}
	if event.Amount != 50000.25 {
		t.Errorf("amount = %v", event.Amount)
	}
	if event.Kind != domain.ActivitySwap {
		t.Errorf("kind = %s", event.Kind)
	}
}

func TestParseDescription_TransferReceive(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	desc := "senderWallet transferred 2000.50 of " + testMint + " to " + testWallet + "."

	event, ok := parseDescription(testWallet, "TRANSFER", desc, now.Unix()-60, now)
	if !ok {
		t.Fatal("expected accept")
	}
	if event.WalletAddress != testWallet {
		t.Errorf("wallet = %s", event.WalletAddress)
	}
	if event.TokenAddress != testMint {
		t.Errorf("token = %s", event.TokenAddress)
	}
	if event.Amount != 2000.50 {
		t.Errorf("amount = %v", event.Amount)
	}
	if event.Kind != domain.ActivityTransfer {
		t.Errorf("kind = %s", event.Kind)
	}
}

func TestParseDescription_Rejections(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	recent := now.Unix() - 60

	cases := []struct {
		name   string
		txType string
		desc   string
		ts     int64
	}{
		{
			name:   "wrong token count",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for " + testMint,
			ts:     recent,
		},
		{
			name:   "last token not an address",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for 50000.25 notamint",
			ts:     recent,
		},
		{
			name:   "amount has one fractional digit",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for 50000.2 " + testMint,
			ts:     recent,
		},
		{
			name:   "amount has no fractional part",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for 50000 " + testMint,
			ts:     recent,
		},
		{
			name:   "amount below threshold",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for 999.99 " + testMint,
			ts:     recent,
		},
		{
			name:   "event older than window",
			txType: "SWAP",
			desc:   testWallet + " swapped 10.5 SOL for 50000.25 " + testMint,
			ts:     now.Add(-25 * time.Hour).Unix(),
		},
		{
			name:   "transfer to someone else",
			txType: "TRANSFER",
			desc:   "sender transferred 2000.50 of " + testMint + " to TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA.",
			ts:     recent,
		},
		{
			name:   "transfer of the reference asset",
			txType: "TRANSFER",
			desc:   "sender transferred 2000.50 of SOL to " + testWallet + ".",
			ts:     recent,
		},
		{
			name:   "unknown type",
			txType: "NFT_SALE",
			desc:   testWallet + " swapped 10.5 SOL for 50000.25 " + testMint,
			ts:     recent,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := parseDescription(testWallet, tc.txType, tc.desc, tc.ts, now); ok {
				t.Errorf("expected reject for %q", tc.desc)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"50000.25", 50000.25, true},
		{"1000.00", 1000, true},
		{"999.99", 0, false},
		{"50000.2", 0, false},
		{"50000", 0, false},
		{"abc.de", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseAmount(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseAmount(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
