package controller

import (
	"user-management/internal/config/validation"
	"user-management/internal/dto"
	"user-management/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type AuthController struct {
	AuthService *service.AuthService
	Logger      *logrus.Logger
	Validation  *validation.Validation
	Tracer      trace.Tracer
}

func NewAuthController(authService *service.AuthService, logger *logrus.Logger, validator *validation.Validation) *AuthController {
	return &AuthController{authService, logger, validator, otel.Tracer("AuthController")}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	userContext, span := c.Tracer.Start(ctx.UserContext(), "Login")
	defer span.End()

	req := new(dto.LoginRequest)
	if err := c.Validation.ParseAndValidate(ctx, req); err != nil {
		c.Logger.WithContext(userContext).WithError(err).Warn("Validation failed for login request")
		return err
	}

	token, err := c.AuthService.Login(userContext, req)
	if err != nil {
		c.Logger.WithContext(userContext).WithError(err).Warn("Invalid login attempt")
		return err
	}

	return ctx.JSON(dto.Success(token))
}

func (c *AuthController) RefreshToken(ctx *fiber.Ctx) error {
	userContext, span := c.Tracer.Start(ctx.UserContext(), "RefreshToken")
	defer span.End()

	req := new(dto.RefreshTokenRequest)
	if err := c.Validation.ParseAndValidate(ctx, req); err != nil {
		c.Logger.WithContext(userContext).WithError(err).Warn("Validation failed for refresh token request")
		return err
	}

	token, err := c.AuthService.RefreshToken(userContext, req.RefreshToken)
	if err != nil {
		c.Logger.WithContext(userContext).WithError(err).Warn("Invalid refresh token attempt")
		return err
	}

	return ctx.JSON(dto.Success(token))
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	userContext, span := c.Tracer.Start(ctx.UserContext(), "Logout")
	defer span.End()

	req := new(dto.LogoutRequest)
	if err := c.Validation.ParseAndValidate(ctx, req); err != nil {
		c.Logger.WithContext(userContext).WithError(err).Warn("Payload required for logout")
		return err
	}

	if err := c.AuthService.Logout(userContext, req); err != nil {
		c.Logger.WithContext(userContext).WithError(err).Error("Failed to logout")
		return err
	}

	return ctx.JSON(dto.Success("Logout successfully"))
}
