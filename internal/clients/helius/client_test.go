package helius

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Transactions(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"type":"SWAP","description":"walletA swapped 10.5 SOL for 50000.25 mint111","timestamp":1700000000,"signature":"sig1"},
			{"type":"TRANSFER","description":"walletB transferred 2000.5 BONK to walletA.","timestamp":1700000060,"signature":"sig2"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	txs := client.Transactions(context.Background(), "walletA", "")
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if gotPath != "/v0/addresses/walletA/transactions" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotQuery != "api-key=test-key" {
		t.Errorf("unexpected query: %s", gotQuery)
	}

	if txs[0].Type != "SWAP" || txs[0].Signature != "sig1" || txs[0].Timestamp != 1700000000 {
		t.Errorf("unexpected first transaction: %+v", txs[0])
	}
}

func TestClient_Transactions_BeforeCursor(t *testing.T) {
	var gotBefore string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBefore = r.URL.Query().Get("before")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.Transactions(context.Background(), "walletA", "sig99")

	if gotBefore != "sig99" {
		t.Errorf("expected before=sig99, got %q", gotBefore)
	}
}

func TestClient_Transactions_Non200IsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if txs := client.Transactions(context.Background(), "walletA", ""); len(txs) != 0 {
		t.Fatalf("expected empty page on 429, got %d", len(txs))
	}
}

func TestClient_Transactions_BadJSONIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if txs := client.Transactions(context.Background(), "walletA", ""); len(txs) != 0 {
		t.Fatalf("expected empty page on decode failure, got %d", len(txs))
	}
}
