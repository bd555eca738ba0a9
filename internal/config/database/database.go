package database

import (
	"database/sql"
	"time"

	"user-management/internal/config/env"
	"user-management/internal/config/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sqlOpen is swapped in tests.
var sqlOpen = otelsql.Open

// NewDatabase opens an instrumented pgx connection pool and hands it to gorm.
func NewDatabase(log *logrus.Logger, config *env.Config) *gorm.DB {
	sqlDB, err := sqlOpen("pgx", config.Database.DSN,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		log.Fatalf("failed to open sql database: %v", err)
		return nil
	}

	configurePool(sqlDB, config)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping sql database: %v", err)
		return nil
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               logger.NewGormLogger(log, config),
		DisableAutomaticPing: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
		return nil
	}

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName("postgres"))); err != nil {
		log.WithError(err).Warn("failed to register otelgorm plugin")
	}

	log.Info("Database connection established successfully")
	return db
}

func configurePool(sqlDB *sql.DB, config *env.Config) {
	idleConnection := config.Database.Pool.Idle
	maxConnection := config.Database.Pool.Max
	maxLifeTimeConnection := config.Database.Pool.Lifetime

	sqlDB.SetMaxIdleConns(idleConnection)
	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLifeTimeConnection) * time.Second)
}
