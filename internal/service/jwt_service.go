package service

import (
	"context"
	"errors"
	"time"

	"user-management/internal/config/env"
	"user-management/internal/constant"
	"user-management/internal/utils/errcode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Claims struct {
	UserID uint               `json:"userId"`
	Type   constant.TokenType `json:"type"`
	jwt.RegisteredClaims
}

type JwtService struct {
	log    *logrus.Logger
	config *env.Config
	tracer trace.Tracer
}

func NewJwtService(log *logrus.Logger, config *env.Config) *JwtService {
	return &JwtService{log, config, otel.Tracer("JwtService")}
}

// GenerateAccessToken creates a short-lived JWT access token
func (j *JwtService) GenerateAccessToken(ctx context.Context, userID uint) (string, error) {
	_, span := j.tracer.Start(ctx, "GenerateAccessToken")
	defer span.End()

	return j.sign(userID, constant.TokenTypeAccess, j.config.GetAccessTokenExpiration(), j.config.GetAccessSecret())
}

// GenerateRefreshToken creates a long-lived JWT refresh token
func (j *JwtService) GenerateRefreshToken(ctx context.Context, userID uint) (string, error) {
	_, span := j.tracer.Start(ctx, "GenerateRefreshToken")
	defer span.End()

	return j.sign(userID, constant.TokenTypeRefresh, j.config.GetRefreshTokenExpiration(), j.config.GetRefreshSecret())
}

func (j *JwtService) ValidateAccessToken(ctx context.Context, token string) (*Claims, error) {
	spanCtx, span := j.tracer.Start(ctx, "ValidateAccessToken")
	defer span.End()

	return j.validateToken(spanCtx, token, constant.TokenTypeAccess, j.config.GetAccessSecret())
}

func (j *JwtService) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	spanCtx, span := j.tracer.Start(ctx, "ValidateRefreshToken")
	defer span.End()

	return j.validateToken(spanCtx, token, constant.TokenTypeRefresh, j.config.GetRefreshSecret())
}

// Validate checks a token of the given type.
func (j *JwtService) Validate(ctx context.Context, token string, tokenType constant.TokenType) (*Claims, error) {
	if tokenType == constant.TokenTypeRefresh {
		return j.ValidateRefreshToken(ctx, token)
	}
	return j.ValidateAccessToken(ctx, token)
}

// Lifetime is the configured validity of a token type.
func (j *JwtService) Lifetime(tokenType constant.TokenType) time.Duration {
	if tokenType == constant.TokenTypeRefresh {
		return j.config.GetRefreshTokenExpiration()
	}
	return j.config.GetAccessTokenExpiration()
}

func (j *JwtService) sign(userID uint, tokenType constant.TokenType, lifetime time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (j *JwtService) validateToken(ctx context.Context, tokenString string, tokenType constant.TokenType, secretKey string) (*Claims, error) {
	logger := j.log.WithContext(ctx)
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Error("Token method not match")
			return nil, errcode.ErrUnexpectedSignMethod
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		logger.WithError(err).Warn("Failed to parse with claims")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errcode.ErrTokenIsExpired
		}
		return nil, errcode.ErrInvalidToken
	}

	if !token.Valid || claims.Type != tokenType {
		logger.WithField("type", claims.Type).Warn("Token invalid")
		return nil, errcode.ErrInvalidToken
	}

	return claims, nil
}
