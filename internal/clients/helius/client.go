// Package helius fetches parsed transaction history from the Helius
// enhanced transactions API.
package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.helius.xyz"
	DefaultTimeout = 10 * time.Second
)

// Transaction is one parsed transaction from the enhanced API. Only the
// fields the ingest path reads are decoded.
type Transaction struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
	Signature   string `json:"signature"`
}

// Client calls the Helius /v0/addresses/{wallet}/transactions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Helius client. baseURL may be empty to use the
// public endpoint.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transactions fetches the most recent transaction page for a wallet.
// A non-empty before cursor resumes pagination past that signature.
// Any failure, transport, status or decode, yields an empty page; the
// caller retries on its next tick.
func (c *Client) Transactions(ctx context.Context, wallet, before string) []Transaction {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	if before != "" {
		q.Set("before", before)
	}
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?%s", c.baseURL, wallet, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Error("build indexer request", zap.String("wallet", wallet), zap.Error(err))
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("indexer request failed", zap.String("wallet", wallet), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("indexer non-200",
			zap.String("wallet", wallet),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil
	}

	var txs []Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		c.log.Warn("decode indexer response", zap.String("wallet", wallet), zap.Error(err))
		return nil
	}
	return txs
}
