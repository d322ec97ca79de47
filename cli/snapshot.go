package cli

import (
	"context"
	"fmt"
	"time"

	"investmanager.com/cron"
	"investmanager.com/db"
	"investmanager.com/market"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write the fallback price file",
	Long: `Refresh the snapshot file used when the live feed is unavailable.

With --seed the built-in prices are written without touching the feed.

Example:
  investmanager snapshot --symbols AAPL,MSFT`,
	RunE: runSnapshot,
}

var (
	snapshotSeed    bool
	snapshotSymbols []string
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&snapshotSeed, "seed", false, "write the built-in seed prices")
	snapshotCmd.Flags().StringSliceVar(&snapshotSymbols, "symbols", nil, "symbols to refresh (default SNAPSHOT_SYMBOLS)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := bootstrap()
	if err != nil {
		return err
	}

	if snapshotSeed {
		if err := market.WriteSnapshot(cfg.SnapshotPath, market.SeedSnapshot(time.Now())); err != nil {
			return fmt.Errorf("write seed snapshot: %w", err)
		}
		log.Infof("Seed prices written to %s", cfg.SnapshotPath)
		return nil
	}

	gw, err := market.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("market gateway: %w", err)
	}
	symbols := cfg.SnapshotSymbols
	if len(snapshotSymbols) > 0 {
		symbols = snapshotSymbols
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	return cron.RefreshSnapshot(ctx, db.DB, gw, symbols)
}
