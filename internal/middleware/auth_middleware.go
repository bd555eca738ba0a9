package middleware

import (
	"strings"

	"user-management/internal/config/env"
	"user-management/internal/constant"
	"user-management/internal/service"
	"user-management/internal/utils/errcode"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const (
	bearerKeyword = "Bearer"
	bearerLen     = len(bearerKeyword)
	authKey       = "auth"
)

// AuthMiddleware requires a valid, non-revoked access token. It lets every
// request through when authentication is disabled.
func AuthMiddleware(config *env.Config, jwtService *service.JwtService, blacklistService *service.BlacklistService, log *logrus.Logger) fiber.Handler {
	if !config.Auth.Enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	tracer := otel.Tracer("AuthMiddleware")
	return func(c *fiber.Ctx) error {
		spanCtx, span := tracer.Start(c.UserContext(), "AuthMiddleware")
		defer span.End()

		logger := log.WithContext(spanCtx)

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.Warn("authorization header missing")
			return errcode.ErrAuthorizationHeader
		}

		if !strings.HasPrefix(authHeader, bearerKeyword) {
			logger.Warn("invalid authorization header format")
			return errcode.ErrBearerHeader
		}

		accessToken := strings.TrimSpace(authHeader[bearerLen:])
		if accessToken == "" {
			logger.Warn("access token missing in header")
			return errcode.ErrAccessTokenMissing
		}

		if err := blacklistService.IsTokenBlacklisted(spanCtx, accessToken, constant.TokenTypeAccess); err != nil {
			logger.WithError(err).Warn("access token rejected by blacklist")
			return err
		}

		claims, err := jwtService.ValidateAccessToken(spanCtx, accessToken)
		if err != nil {
			logger.WithError(err).Warn("access token is invalid or expired")
			return err
		}

		c.Locals(authKey, claims)
		c.SetUserContext(spanCtx)
		return c.Next()
	}
}

// GetUser returns the claims stored by AuthMiddleware, or nil when the
// request was not authenticated.
func GetUser(ctx *fiber.Ctx) *service.Claims {
	claims, _ := ctx.Locals(authKey).(*service.Claims)
	return claims
}
