package repository

import (
	"context"
	"fmt"
	"time"

	"user-management/internal/constant"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type TokenBlacklistRepository interface {
	Add(ctx context.Context, tokenHash string, tokenType constant.TokenType, duration time.Duration) error
	IsBlacklisted(ctx context.Context, tokenHash string, tokenType constant.TokenType) (bool, error)
}

// TokenBlacklist keeps revoked tokens in process memory until they expire.
// Expired entries are swept by the cache janitor.
type TokenBlacklist struct {
	cache *gocache.Cache
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{cache: gocache.New(gocache.NoExpiration, time.Minute)}
}

func (tb *TokenBlacklist) Add(_ context.Context, tokenHash string, tokenType constant.TokenType, duration time.Duration) error {
	tb.cache.Set(blacklistKey(tokenHash, tokenType), struct{}{}, duration)
	return nil
}

func (tb *TokenBlacklist) IsBlacklisted(_ context.Context, tokenHash string, tokenType constant.TokenType) (bool, error) {
	_, exists := tb.cache.Get(blacklistKey(tokenHash, tokenType))
	return exists, nil
}

type RedisTokenBlacklist struct {
	client *redis.Client
}

func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client}
}

func (r *RedisTokenBlacklist) Add(ctx context.Context, tokenHash string, tokenType constant.TokenType, duration time.Duration) error {
	return r.client.Set(ctx, blacklistKey(tokenHash, tokenType), "1", duration).Err()
}

func (r *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, tokenHash string, tokenType constant.TokenType) (bool, error) {
	result, err := r.client.Get(ctx, blacklistKey(tokenHash, tokenType)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return result == "1", nil
}

func blacklistKey(tokenHash string, tokenType constant.TokenType) string {
	return fmt.Sprintf("blacklist:%s:%s", tokenType, tokenHash)
}
