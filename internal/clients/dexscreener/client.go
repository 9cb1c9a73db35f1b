// Package dexscreener queries the public DexScreener API for token
// names, SOL prices and market caps.
package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solana-wallet-radar/internal/infra/retry"
)

// Default configuration values.
const (
	DefaultBaseURL       = "https://api.dexscreener.com"
	DefaultSearchTimeout = 2 * time.Second

	// One token lookup per 500ms keeps a full wallet scan under the
	// public API rate limit.
	lookupInterval = 500 * time.Millisecond

	tokenInfoAttempts = 5
	tokenInfoDelay    = 1 * time.Second
)

// Fallback values when the market cap lookup terminally fails.
const (
	UnknownSymbol    = "unknown"
	UnknownMarketCap = "0000"
)

// Client wraps the search and token endpoints behind a shared rate
// limiter and circuit breaker.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

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

// WithLimiter overrides the request pacing limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a DexScreener client. baseURL may be empty to use
// the public endpoint.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultSearchTimeout},
		limiter: rate.NewLimiter(rate.Every(lookupInterval), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "DexScreenerAPI",
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pair struct {
	BaseToken   tokenRef `json:"baseToken"`
	QuoteToken  tokenRef `json:"quoteToken"`
	PriceNative string   `json:"priceNative"`
	MarketCap   float64  `json:"marketCap"`
}

type tokenRef struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type pairsResponse struct {
	Pairs []pair `json:"pairs"`
}

// Search resolves a mint to its display name and SOL price via the
// first search pair where the mint sits on one side and SOL on the
// other. ok is false when no such pair exists or the call fails.
func (c *Client) Search(ctx context.Context, mint string) (name string, priceSOL float64, ok bool) {
	var resp pairsResponse
	if err := c.get(ctx, fmt.Sprintf("/latest/dex/search?q=%s", mint), &resp); err != nil {
		c.log.Warn("dex search failed", zap.String("mint", mint), zap.Error(err))
		return "", 0, false
	}

	for _, p := range resp.Pairs {
		if p.BaseToken.Address != mint && p.QuoteToken.Address != mint {
			continue
		}
		if p.BaseToken.Symbol != "SOL" && p.QuoteToken.Symbol != "SOL" {
			continue
		}
		if p.BaseToken.Address == mint {
			name = p.BaseToken.Name
		} else {
			name = p.QuoteToken.Name
		}
		price, err := strconv.ParseFloat(p.PriceNative, 64)
		if err != nil {
			continue
		}
		return name, price, true
	}
	return "", 0, false
}

// TokenInfo resolves a mint to its ticker symbol and the decimal
// digits of its market cap, taken from the first listed pair. The call
// is retried up to five times with a fixed delay; a terminal failure
// yields the unknown placeholders so an alert still goes out.
func (c *Client) TokenInfo(ctx context.Context, mint string) (symbol, marketCapDigits string) {
	var resp pairsResponse
	err := retry.DoFixed(ctx, tokenInfoAttempts, tokenInfoDelay, func() error {
		resp = pairsResponse{}
		if err := c.get(ctx, fmt.Sprintf("/latest/dex/tokens/%s", mint), &resp); err != nil {
			return err
		}
		if len(resp.Pairs) == 0 {
			return fmt.Errorf("no pairs for %s", mint)
		}
		return nil
	})
	if err != nil {
		c.log.Warn("token info lookup failed", zap.String("mint", mint), zap.Error(err))
		return UnknownSymbol, UnknownMarketCap
	}

	p := resp.Pairs[0]
	return p.BaseToken.Symbol, strconv.FormatFloat(p.MarketCap, 'f', 0, 64)
}

// get issues one paced GET through the circuit breaker and decodes the
// JSON body into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &retry.HTTPError{
				StatusCode: resp.StatusCode,
				Body:       body,
				RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
			}
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
