package redis

import (
	"context"
	"fmt"
	"time"

	"user-management/internal/config/env"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedis connects to the configured Redis server. It returns a nil client
// when Redis is disabled, which turns the lookup cache off and keeps revoked
// tokens in process memory.
func NewRedis(ctx context.Context, log *logrus.Logger, config *env.Config) (*redis.Client, error) {
	if !config.Redis.Enabled {
		log.Info("Redis disabled, caching is off")
		return nil, nil
	}

	pool := config.Redis.Pool
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,

		PoolSize:        pool.Size,
		MinIdleConns:    pool.MinIdle,
		MaxIdleConns:    pool.MaxIdle,
		ConnMaxLifetime: time.Duration(pool.Lifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(pool.IdleTimeout) * time.Second,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Redis.Address, err)
	}

	log.WithField("address", config.Redis.Address).Info("Redis connection established")
	return rdb, nil
}
