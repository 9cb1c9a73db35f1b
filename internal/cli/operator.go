package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"solana-wallet-radar/internal/addr"
	"solana-wallet-radar/internal/domain"
	"solana-wallet-radar/internal/storage"
)

func newAddWalletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-wallet <address> <influencer> [profile-link]",
		Short: "Track a new wallet",
		Long: `Track a new wallet under an influencer handle. The handle is stored
lowercased; the "smart_degen" handle places the wallet in the
SMART_DEGEN cohort, everything else in INFLUENCER.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			address := args[0]
			if !addr.Valid(address) {
				return fmt.Errorf("%q is not a valid Solana address", address)
			}
			influencer := strings.ToLower(args[1])
			link := ""
			if len(args) == 3 {
				link = args[2]
			}

			app, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.close()

			w := &domain.Wallet{
				Address:     address,
				Influencer:  influencer,
				ProfileLink: link,
				Cohort:      domain.CohortFor(influencer),
			}
			if err := app.gw.AddWallet(ctx, w); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					return fmt.Errorf("wallet %s is already tracked", address)
				}
				return err
			}
			fmt.Printf("Tracking %s (%s, %s)\n", address, influencer, w.Cohort)
			return nil
		},
	}
}

func newClearNotifiedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-notified [token]",
		Short: "Re-arm alerting for a token, or for all tokens",
		Long: `Remove a token from the notified set so the detector may alert on it
again. Without an argument the whole set is cleared.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			token := ""
			if len(args) == 1 {
				token = args[0]
			}

			app, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.gw.ClearNotified(ctx, token); err != nil {
				return err
			}
			if token == "" {
				fmt.Println("Cleared the whole notified set")
			} else {
				fmt.Printf("Cleared %s\n", token)
			}
			return nil
		},
	}
}

func newImportStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-stats <file.csv>",
		Short: "Import wallet performance stats",
		Long: `Import the pnl and win-rate rows the offline stats job produces.
The file is CSV with columns: wallet, pnl, win_rate. Percentages keep
their source formatting. Existing rows are overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := readStatsCSV(f)
			if err != nil {
				return err
			}

			app, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer app.close()

			for _, s := range rows {
				if err := app.gw.ImportStats(ctx, s); err != nil {
					return fmt.Errorf("import stats for %s: %w", s.WalletAddress, err)
				}
			}
			fmt.Printf("Imported stats for %d wallets\n", len(rows))
			return nil
		},
	}
}

// readStatsCSV parses wallet,pnl,win_rate rows, tolerating a header.
func readStatsCSV(f *os.File) ([]*domain.WalletStats, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name(), err)
	}

	var rows []*domain.WalletStats
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "wallet") {
			continue
		}
		if !addr.Valid(rec[0]) {
			return nil, fmt.Errorf("row %d: %q is not a valid Solana address", i+1, rec[0])
		}
		rows = append(rows, &domain.WalletStats{
			WalletAddress: rec[0],
			PNL:           rec[1],
			WinRate:       rec[2],
		})
	}
	return rows, nil
}
