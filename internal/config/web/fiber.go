package web

import (
	"errors"

	"user-management/internal/config/env"
	"user-management/internal/config/validation"
	"user-management/internal/dto"
	"user-management/internal/utils/errcode"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewFiber initializes a new Fiber app with custom configurations.
func NewFiber(log *logrus.Logger, config *env.Config) *fiber.App {
	var app = fiber.New(fiber.Config{
		AppName:      config.App.Name,
		ErrorHandler: NewErrorHandler(log),
		Prefork:      config.Web.Prefork,
		BodyLimit:    config.Web.BodyLimit,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Recover middleware to prevent crashes from panics
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(otelfiber.Middleware())

	return app
}

// NewErrorHandler renders every error as the response envelope with null data.
func NewErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		logger := log.WithContext(ctx.UserContext()).WithError(err).WithFields(logrus.Fields{
			"method": ctx.Method(),
			"path":   ctx.Path(),
		})

		// Handle go-playground validation errors
		var ve *validation.ValidationError
		if errors.As(err, &ve) {
			logger.Warn("Caught go-playground validation error")
			response := dto.Failure(fiber.StatusBadRequest, ve.Message)
			response.Errors = ve.Errors
			return ctx.Status(fiber.StatusBadRequest).JSON(response)
		}

		// Check if the error exists in the custom error map
		if code, exists := errcode.GetHTTPStatus(err); exists {
			if code >= fiber.StatusInternalServerError {
				logger.Error("Caught errcode error")
			} else {
				logger.Warn("Caught errcode error")
			}
			return ctx.Status(code).JSON(dto.Failure(code, err.Error()))
		}

		// Handle Fiber errors (e.g., unknown routes, oversized bodies)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			logger.Warn("Caught Fiber error")
			return ctx.Status(fe.Code).JSON(dto.Failure(fe.Code, fe.Message))
		}

		logger.Error("Caught unhandled error")
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(dto.Failure(fiber.StatusInternalServerError, errcode.ErrInternalServerError.Error()))
	}
}
