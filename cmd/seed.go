package main

import (
	"github.com/spf13/cobra"

	"locallibrary/internal/database"
	"locallibrary/internal/seed"
	"locallibrary/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate an empty catalog with sample authors, genres, books and copies",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			return err
		}
		return seed.Run(cmd.Context(), services.NewLibrary(db, logger), logger)
	},
}
