package main

import (
	"user-management/db/seeder"
	"user-management/internal/config/database"
	"user-management/internal/config/env"
	"user-management/internal/config/logger"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample roles, permissions and users for development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := env.NewConfig()
		log := logger.NewLogger(config)

		db := database.NewDatabase(log, config)
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.RunMigrations(db, log); err != nil {
			return err
		}

		if err := seeder.Seed(cmd.Context(), db, log, clearData); err != nil {
			return err
		}

		log.Info("Seeding completed")
		return nil
	},
}
