package main

import (
	"user-management/internal/config/database"
	"user-management/internal/config/env"
	"user-management/internal/config/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := env.NewConfig()
		log := logger.NewLogger(config)

		db := database.NewDatabase(log, config)
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		return database.RunMigrations(db, log)
	},
}
