// Package cli provides the radar command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solana-wallet-radar/internal/config"
	"solana-wallet-radar/internal/gateway"
	"solana-wallet-radar/internal/logging"
	"solana-wallet-radar/internal/storage/migrations"
	"solana-wallet-radar/internal/storage/postgres"
)

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "radar",
		Short: "Convergent-buy detection for tracked Solana wallets",
		Long: `radar polls the holdings and activity of tracked Solana wallets,
detects tokens that several of them bought inside a 24-hour window and
alerts Telegram subscribers.

Configuration is read from defaults, config.yaml, .env, environment
variables and flags, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newAddWalletCmd())
	rootCmd.AddCommand(newClearNotifiedCmd())
	rootCmd.AddCommand(newImportStatsCmd())
	rootCmd.AddCommand(newLookupCmd())
	return rootCmd
}

// appEnv bundles the dependencies shared by every subcommand.
type appEnv struct {
	cfg  *config.Config
	log  *zap.Logger
	pool *postgres.Pool
	gw   *gateway.Gateway
}

// setup loads the configuration, connects to the database, applies
// migrations and wires the store gateway.
func setup(ctx context.Context, cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.DB.DSN, cfg.DB.MinConns, cfg.DB.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	gw := gateway.New(gateway.Options{
		Wallets:     postgres.NewWalletStore(pool),
		Holdings:    postgres.NewHoldingStore(pool),
		Activity:    postgres.NewActivityStore(pool),
		Notified:    postgres.NewNotifiedTokenStore(pool),
		Subscribers: postgres.NewSubscriberStore(pool),
		Stats:       postgres.NewStatsStore(pool),
		Logger:      log,
	})

	return &appEnv{cfg: cfg, log: log, pool: pool, gw: gw}, nil
}

func (a *appEnv) close() {
	a.pool.Close()
	a.log.Sync()
}
