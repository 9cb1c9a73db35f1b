package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"solana-wallet-radar/internal/lookup"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query tracked wallets, influencers and token holders",
	}
	cmd.AddCommand(newLookupWalletCmd())
	cmd.AddCommand(newLookupInfluencerCmd())
	cmd.AddCommand(newLookupTokenCmd())
	cmd.AddCommand(newLookupInfluencersCmd())
	return cmd
}

// withLookup runs fn against a lookup service over the configured store.
func withLookup(cmd *cobra.Command, fn func(ctx context.Context, svc *lookup.Service) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer app.close()

	return fn(ctx, lookup.NewService(app.gw, app.cfg.Telegram.OperatorHandle))
}

func newLookupWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet <address>",
		Short: "Resolve the influencer behind a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookup(cmd, func(ctx context.Context, svc *lookup.Service) error {
				owner, ok := svc.OwnerOfWallet(ctx, args[0])
				if !ok {
					fmt.Println("Not tracked")
					return nil
				}
				fmt.Printf("%s (%s)\n", owner.Handle, owner.Link)
				printEntries(owner.Wallets)
				return nil
			})
		},
	}
}

func newLookupInfluencerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "influencer <handle>",
		Short: "List the wallets of an influencer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookup(cmd, func(ctx context.Context, svc *lookup.Service) error {
				entries, ok := svc.WalletsOfInfluencer(ctx, args[0])
				if !ok {
					fmt.Println("Unknown influencer")
					return nil
				}
				printEntries(entries)
				return nil
			})
		},
	}
}

func newLookupTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <mint>",
		Short: "List tracked wallets holding a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookup(cmd, func(ctx context.Context, svc *lookup.Service) error {
				holders, ok := svc.HoldersOfToken(ctx, args[0])
				if !ok {
					fmt.Println("No tracked holders")
					return nil
				}
				fmt.Printf("%s:\n", holders.TokenName)
				for _, h := range holders.Holders {
					who := "untracked"
					if h.Known {
						who = fmt.Sprintf("%s (%s)", h.Handle, h.Link)
					}
					fmt.Printf("  %s  %.4f SOL  %s\n", h.Wallet, h.ValueInSOL, who)
				}
				return nil
			})
		},
	}
}

func newLookupInfluencersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "influencers",
		Short: "List known influencer handles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLookup(cmd, func(ctx context.Context, svc *lookup.Service) error {
				for _, h := range svc.KnownInfluencers(ctx) {
					fmt.Println(h)
				}
				return nil
			})
		},
	}
}

func printEntries(entries []lookup.WalletEntry) {
	for _, e := range entries {
		if e.HasStats {
			fmt.Printf("  %s  PNL %s  WR %s\n", e.Address, e.PNL, e.WinRate)
		} else {
			fmt.Printf("  %s  no stats yet\n", e.Address)
		}
	}
}
