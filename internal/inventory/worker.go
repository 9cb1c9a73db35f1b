// Package inventory keeps the per-wallet holdings snapshot in sync
// with on-chain token balances.
package inventory

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"solana-wallet-radar/internal/clients/solanarpc"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/observability"
)

// DefaultInterval is the tick period of the inventory loop.
const DefaultInterval = 120 * time.Second

// BalanceReader provides token balances per wallet.
type BalanceReader interface {
	GetTokenAccountsByOwner(ctx context.Context, wallet string) ([]solanarpc.TokenAccount, error)
}

// Pricer resolves a mint to its display name and SOL price.
type Pricer interface {
	Search(ctx context.Context, mint string) (name string, priceSOL float64, ok bool)
}

// Options configures a Worker.
type Options struct {
	Gateway  *gateway.Gateway
	Balances BalanceReader
	Pricer   Pricer
	Logger   *zap.Logger
}

// Worker reconciles stored holdings against live balances once per
// tick. A wallet whose balance read fails keeps its previous snapshot.
type Worker struct {
	gw       *gateway.Gateway
	balances BalanceReader
	pricer   Pricer
	log      *zap.Logger
}

// NewWorker creates an inventory Worker.
func NewWorker(opts Options) *Worker {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{
		gw:       opts.Gateway,
		balances: opts.Balances,
		pricer:   opts.Pricer,
		log:      log,
	}
}

// Tick runs one reconciliation pass over every tracked wallet.
func (w *Worker) Tick(ctx context.Context) error {
	for _, wallet := range w.gw.ListTrackedWallets(ctx) {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.syncWallet(ctx, wallet.Address)
	}
	return nil
}

func (w *Worker) syncWallet(ctx context.Context, wallet string) {
	accounts, err := w.balances.GetTokenAccountsByOwner(ctx, wallet)
	if err != nil {
		observability.RecordWalletSkipped()
		w.log.Warn("balance read failed, snapshot kept", zap.String("wallet", wallet), zap.Error(err))
		return
	}

	// Dust accounts never enter the snapshot.
	filtered := accounts[:0]
	for _, a := range accounts {
		if a.UIAmount > 0.01 {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == 0 {
		return
	}

	existing := w.gw.HoldingsFor(ctx, wallet)
	seen := make(map[string]struct{}, len(filtered))

	for _, a := range filtered {
		name, price, ok := w.pricer.Search(ctx, a.Mint)
		if !ok {
			continue
		}

		value := math.Round(a.UIAmount*price*10000) / 10000
		if value <= domain.MinHoldingValueSOL {
			continue
		}

		w.gw.UpsertHolding(ctx, &domain.TokenHolding{
			WalletAddress: wallet,
			TokenAddress:  a.Mint,
			TokenName:     name,
			TokenAmount:   a.UIAmount,
			ValueInSOL:    value,
		})
		observability.RecordHoldingUpserted()
		seen[a.Mint] = struct{}{}
	}

	for mint := range existing {
		if _, kept := seen[mint]; !kept {
			w.gw.DeleteHolding(ctx, wallet, mint)
			observability.RecordHoldingDeleted()
		}
	}
}
