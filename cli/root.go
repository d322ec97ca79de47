package cli

import (
	"fmt"

	"investmanager.com/config"
	"investmanager.com/db"
	"investmanager.com/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "investmanager",
	Short: "Multi-tenant investment account ledger",
	Long: `InvestManager keeps shared investment accounts: users buy and sell
units of ticker symbols priced from a market feed, every trade is recorded in
an append-only ledger, and per-account permissions decide who may view or
post transactions.

Configuration comes from .env, CONFIG_FILE (YAML) and the environment.`,
	SilenceUsage: true,
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, sets up logging and opens the database.
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Setup(cfg.LogFile, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogLevel)
	if err := db.Init(cfg); err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return cfg, nil
}
