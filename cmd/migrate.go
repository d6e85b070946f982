package main

import (
	"github.com/spf13/cobra"

	"locallibrary/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the catalog tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("migration complete")
		return nil
	},
}
