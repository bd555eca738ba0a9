package controller

import (
	"user-management/internal/dto"
	"user-management/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type LookupController struct {
	lookupService *service.LookupService
	tracer        trace.Tracer
}

func NewLookupController(lookupService *service.LookupService) *LookupController {
	return &LookupController{lookupService, otel.Tracer("LookupController")}
}

func (c *LookupController) Roles(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Roles")
	defer span.End()

	roles, err := c.lookupService.ListRoles(userContext)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.Success(roles))
}

func (c *LookupController) Permissions(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Permissions")
	defer span.End()

	permissions, err := c.lookupService.ListPermissions(userContext)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.Success(permissions))
}
