package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// redisClient is the subset of *redis.Client the cache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisService struct {
	client redisClient
	logger *logrus.Logger
	tracer trace.Tracer
}

// NewRedisService wraps client. A nil client yields a service that never
// caches.
func NewRedisService(client *redis.Client, logger *logrus.Logger) *RedisService {
	service := &RedisService{logger: logger, tracer: otel.Tracer("RedisService")}
	if client != nil {
		service.client = client
	}
	return service
}

// Enabled reports whether a Redis client is configured.
func (r *RedisService) Enabled() bool {
	return r.client != nil
}

// Get retrieves a cached JSON value.
func (r *RedisService) Get(ctx context.Context, key string) (string, bool) {
	if !r.Enabled() {
		return "", false
	}

	spanCtx, span := r.tracer.Start(ctx, "RedisService.Get")
	defer span.End()

	logger := r.logger.WithContext(spanCtx).WithField("key", key)

	cached, err := r.client.Get(spanCtx, key).Result()
	if err == redis.Nil {
		logger.Debug("Cache miss")
		return "", false
	}

	if err != nil {
		logger.WithError(err).Error("Failed to read from redis")
		return "", false
	}

	logger.Debug("Cache hit")
	return cached, true
}

// Set marshals data to JSON and stores it with the given TTL.
func (r *RedisService) Set(ctx context.Context, key string, data any, ttl time.Duration) (string, error) {
	if !r.Enabled() {
		return "", nil
	}

	spanCtx, span := r.tracer.Start(ctx, "RedisService.Set")
	defer span.End()

	logger := r.logger.WithContext(spanCtx).WithField("key", key)

	payload, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Warn("Failed to marshal cache value")
		return "", err
	}
	if err := r.client.Set(spanCtx, key, payload, ttl).Err(); err != nil {
		logger.WithError(err).Error("Failed to store data to redis")
		return "", err
	}

	return string(payload), nil
}

// Del evicts keys from the cache.
func (r *RedisService) Del(ctx context.Context, keys ...string) error {
	if !r.Enabled() || len(keys) == 0 {
		return nil
	}

	spanCtx, span := r.tracer.Start(ctx, "RedisService.Del")
	defer span.End()

	if err := r.client.Del(spanCtx, keys...).Err(); err != nil {
		r.logger.WithContext(spanCtx).WithError(err).WithField("keys", keys).Error("Failed to evict keys from redis")
		return err
	}
	return nil
}
