package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumian-ai/sellerchat/db"
	"github.com/lumian-ai/sellerchat/internal/config"
	"github.com/lumian-ai/sellerchat/internal/log"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run pending database migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger := log.New(log.Config{Level: cfg.Level(), JSON: cfg.LogJSON})
		if err := db.Migrate(cfg.DatabaseURL(), logger); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		logger.Info("database schema up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
