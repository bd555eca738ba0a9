package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"user-management/internal/constant"
	"user-management/internal/repository"
	"user-management/internal/utils/errcode"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// BlacklistService revokes tokens until they would have expired anyway.
// Tokens are stored as SHA-256 hashes.
type BlacklistService struct {
	log                 *logrus.Logger
	jwtService          *JwtService
	blacklistRepository repository.TokenBlacklistRepository
	tracer              trace.Tracer
}

func NewBlacklistService(log *logrus.Logger, jwtService *JwtService, repo repository.TokenBlacklistRepository) *BlacklistService {
	return &BlacklistService{log, jwtService, repo, otel.Tracer("BlacklistService")}
}

// IsTokenBlacklisted returns errcode.ErrTokenBlacklisted for revoked tokens.
func (b *BlacklistService) IsTokenBlacklisted(ctx context.Context, token string, tokenType constant.TokenType) error {
	spanCtx, span := b.tracer.Start(ctx, "BlacklistService.IsTokenBlacklisted")
	defer span.End()

	blacklisted, err := b.blacklistRepository.IsBlacklisted(spanCtx, generateTokenHash(token), tokenType)
	if err != nil {
		b.log.WithContext(spanCtx).WithError(err).Error("Failed to read token blacklist")
		return errcode.ErrInternalServerError
	}

	if blacklisted {
		return errcode.ErrTokenBlacklisted
	}

	return nil
}

// Add revokes token for the rest of its lifetime. Expired tokens are skipped;
// tokens that cannot be parsed are kept for the full configured lifetime.
func (b *BlacklistService) Add(ctx context.Context, token string, tokenType constant.TokenType) error {
	spanCtx, span := b.tracer.Start(ctx, "BlacklistService.Add")
	defer span.End()

	logger := b.log.WithContext(spanCtx)

	ttl := b.jwtService.Lifetime(tokenType)
	claims, err := b.jwtService.Validate(spanCtx, token, tokenType)
	switch {
	case errors.Is(err, errcode.ErrTokenIsExpired):
		return nil
	case err == nil && claims.ExpiresAt != nil:
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if ttl <= 0 {
		return nil
	}

	if err := b.blacklistRepository.Add(spanCtx, generateTokenHash(token), tokenType, ttl); err != nil {
		logger.WithError(err).Error("Failed to store token in blacklist")
		return errcode.ErrTokenInvalidation
	}

	return nil
}

func generateTokenHash(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
