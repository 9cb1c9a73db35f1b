package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"solana-wallet-radar/internal/alert"
	"solana-wallet-radar/internal/clients/dexscreener"
	"solana-wallet-radar/internal/clients/helius"
	"solana-wallet-radar/internal/clients/solanarpc"
	"solana-wallet-radar/internal/ingest"
	"solana-wallet-radar/internal/inventory"
	"solana-wallet-radar/internal/notify"
	"solana-wallet-radar/internal/observability"
	"solana-wallet-radar/internal/scheduler"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the detection pipeline",
		Long: `Run the three worker loops (holdings inventory, activity ingest,
convergence detector) against the configured indexer, RPC and price
endpoints, and serve /metrics and /health.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.close()

			cfg := app.cfg
			if cfg.Helius.APIKey == "" {
				return fmt.Errorf("helius.api_key is required (env: HELIUS_API_KEY)")
			}
			if cfg.Telegram.BotToken == "" {
				return fmt.Errorf("telegram.bot_token is required (env: TELEGRAM_BOT_TOKEN)")
			}

			app.gw.RemoveExpiredSubscribers(ctx, time.Now())
			observability.SetTrackedWallets(len(app.gw.ListTrackedWallets(ctx)))

			indexer := helius.NewClient(cfg.Helius.BaseURL, cfg.Helius.APIKey, helius.WithLogger(app.log))
			rpc := solanarpc.NewClient(cfg.RPC.URL)
			dex := dexscreener.NewClient(cfg.Dex.BaseURL, dexscreener.WithLogger(app.log))
			tg, err := notify.NewTelegramNotifier(cfg.Telegram.BotToken, app.log)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}

			sched := scheduler.New(scheduler.Options{
				Jobs: []scheduler.Job{
					{
						Name: "inventory",
						Runner: inventory.NewWorker(inventory.Options{
							Gateway:  app.gw,
							Balances: rpc,
							Pricer:   dex,
							Logger:   app.log,
						}),
						Interval: cfg.Workers.InventoryInterval(),
					},
					{
						Name: "ingest",
						Runner: ingest.NewWorker(ingest.Options{
							Gateway: app.gw,
							Indexer: indexer,
							Logger:  app.log,
						}),
						Interval: cfg.Workers.IngestInterval(),
					},
					{
						Name: "detector",
						Runner: alert.NewWorker(alert.Options{
							Gateway:   app.gw,
							TokenInfo: dex,
							Notifier:  tg,
							Logger:    app.log,
						}),
						Interval: cfg.Workers.DetectorInterval(),
					},
				},
				Logger:        app.log,
				RecoveryDelay: cfg.Workers.RecoveryDelay(),
			})

			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			srv := &http.Server{Addr: cfg.App.ListenAddr, Handler: mux}

			app.log.Info("pipeline starting",
				zap.String("listen", cfg.App.ListenAddr),
				zap.Duration("inventory_interval", cfg.Workers.InventoryInterval()),
				zap.Duration("ingest_interval", cfg.Workers.IngestInterval()),
				zap.Duration("detector_interval", cfg.Workers.DetectorInterval()),
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return sched.Run(gctx)
			})
			g.Go(func() error {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("metrics server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			err = g.Wait()
			app.log.Info("pipeline stopped")
			return err
		},
	}
}
