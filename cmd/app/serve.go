package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	app "user-management/internal"
	"user-management/internal/config/database"
	"user-management/internal/config/env"
	"user-management/internal/config/logger"
	"user-management/internal/config/monitor"
	"user-management/internal/config/redis"
	"user-management/internal/config/validation"
	"user-management/internal/config/web"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := env.NewConfig()
	log := logger.NewLogger(config)

	monitoring, err := monitor.NewMonitoring(ctx, log, config)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := monitoring.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to flush telemetry")
		}
	}()

	db := database.NewDatabase(log, config)
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(db, log); err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
	}

	rdb, err := redis.NewRedis(ctx, log, config)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	server := app.NewApp(log, config, db, web.NewFiber(log, config), validation.NewValidation(), rdb)
	return server.Run(ctx)
}
