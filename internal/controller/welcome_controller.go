package controller

import (
	"context"
	"time"

	"user-management/internal/config/env"
	"user-management/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type WelcomeController struct {
	db     *gorm.DB
	config *env.Config
	logger *logrus.Logger
	tracer trace.Tracer
}

// NewWelcomeController creates a new instance of WelcomeController
func NewWelcomeController(db *gorm.DB, config *env.Config, logger *logrus.Logger) *WelcomeController {
	return &WelcomeController{db, config, logger, otel.Tracer("WelcomeController")}
}

func (r *WelcomeController) Hello(ctx *fiber.Ctx) error {
	_, span := r.tracer.Start(ctx.UserContext(), "Hello")
	defer span.End()

	return ctx.JSON(dto.Success(map[string]string{
		"message": "Welcome to " + r.config.App.Name + "!",
	}))
}

// Health reports whether the database answers a ping.
func (r *WelcomeController) Health(ctx *fiber.Ctx) error {
	userContext, span := r.tracer.Start(ctx.UserContext(), "Health")
	defer span.End()

	pingCtx, cancel := context.WithTimeout(userContext, 2*time.Second)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		r.logger.WithContext(userContext).WithError(err).Error("Database ping failed")
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.NewResponse(fiber.StatusServiceUnavailable,
			"Service Unavailable", map[string]string{"database": "down"}))
	}

	return ctx.JSON(dto.Success(map[string]string{"database": "up"}))
}
