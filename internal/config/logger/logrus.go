package logger

import (
	"time"

	"user-management/internal/config/env"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

func NewLogger(config *env.Config) *logrus.Logger {
	log := logrus.New()

	log.SetLevel(logrus.Level(config.Log.Level))
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	return log
}

// NewGormLogger routes gorm's SQL logging through logrus. database.log.level
// follows gorm's scale: 1 silent, 2 error, 3 warn, 4 info.
func NewGormLogger(log *logrus.Logger, config *env.Config) gormlogger.Interface {
	level := gormlogger.LogLevel(config.Database.Log.Level)
	if level < gormlogger.Silent || level > gormlogger.Info {
		level = gormlogger.Warn
	}

	return gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             time.Second * 5,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
		LogLevel:                  level,
	})
}
