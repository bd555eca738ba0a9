package controller

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"user-management/internal/config/validation"
	"user-management/internal/constant"
	"user-management/internal/dto"
	"user-management/internal/middleware"
	"user-management/internal/service"
	"user-management/internal/utils/errcode"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type UserController struct {
	userService *service.UserService
	validation  *validation.Validation
	logger      *logrus.Logger
	tracer      trace.Tracer
}

func NewUserController(userService *service.UserService, validation *validation.Validation, logger *logrus.Logger) *UserController {
	return &UserController{userService, validation, logger, otel.Tracer("UserController")}
}

// Get handles GET /api/user/:id.
func (c *UserController) Get(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Get")
	defer span.End()

	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	user, err := c.userService.GetUser(userContext, id)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.Success(user))
}

// DataTable handles POST /api/users/DataTable.
func (c *UserController) DataTable(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "DataTable")
	defer span.End()

	logger := c.logger.WithContext(userContext)

	body := bytes.TrimSpace(ctx.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		logger.Warn("data table request without body")
		return errcode.ErrBadRequest
	}

	// Missing or zero paging values are clamped to 1 by the service.
	req := new(dto.UserListRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		logger.WithError(err).Warn("failed to parse data table request")
		return err
	}

	page, err := c.userService.ListUsers(userContext, req)
	if err != nil {
		logger.WithError(err).Error("error listing users")
		response := dto.Failure(fiber.StatusInternalServerError, constant.DataTableErrorMessage)
		response.Status.Details = err.Error()
		return ctx.Status(fiber.StatusInternalServerError).JSON(response)
	}

	return ctx.JSON(dto.Success(page))
}

// Create handles POST /api/user.
func (c *UserController) Create(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Create")
	defer span.End()

	req := new(dto.UpdateUserRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid create user request")
		return err
	}

	user, err := c.userService.CreateUser(userContext, req)
	if err != nil {
		return err
	}

	c.logger.WithContext(userContext).WithFields(actor(ctx)).WithField("userId", user.ID).Info("User created")
	ctx.Location(fmt.Sprintf("/api/user/%d", user.ID))
	return ctx.Status(fiber.StatusCreated).
		JSON(dto.NewResponse(fiber.StatusCreated, "User created successfully", user))
}

// Update handles PUT /api/user/:id.
func (c *UserController) Update(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Update")
	defer span.End()

	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	req := new(dto.UpdateUserRequest)
	if err := c.validation.ParseAndValidate(ctx, req); err != nil {
		c.logger.WithContext(userContext).WithError(err).Warn("invalid update user request")
		return err
	}

	user, err := c.userService.UpdateUser(userContext, id, req)
	if err != nil {
		return err
	}

	c.logger.WithContext(userContext).WithFields(actor(ctx)).WithField("userId", id).Info("User updated")

	return ctx.JSON(dto.NewResponse(fiber.StatusOK, "User updated successfully", user))
}

// Delete handles DELETE /api/user/:id. Its data always reports the outcome,
// failures included.
func (c *UserController) Delete(ctx *fiber.Ctx) error {
	userContext, span := c.tracer.Start(ctx.UserContext(), "Delete")
	defer span.End()

	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	err = c.userService.DeleteUser(userContext, id)
	switch {
	case err == nil:
		c.logger.WithContext(userContext).WithFields(actor(ctx)).WithField("userId", id).Info("User deleted")
		return ctx.JSON(dto.NewResponse(fiber.StatusOK, "User deleted successfully",
			dto.DeleteUserResponse{Result: true, Message: constant.UserDeletedMessage}))
	case errors.Is(err, errcode.ErrUserNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(dto.NewResponse(fiber.StatusNotFound, err.Error(),
			dto.DeleteUserResponse{Result: false, Message: constant.UserNotExistMessage}))
	default:
		c.logger.WithContext(userContext).WithError(err).Error("error deleting user")
		return ctx.Status(fiber.StatusInternalServerError).JSON(dto.NewResponse(fiber.StatusInternalServerError, err.Error(),
			dto.DeleteUserResponse{Result: false, Message: constant.UserDeleteErrorMessage}))
	}
}

// actor names the authenticated caller for audit logging.
func actor(ctx *fiber.Ctx) logrus.Fields {
	if claims := middleware.GetUser(ctx); claims != nil {
		return logrus.Fields{"actorId": claims.UserID}
	}
	return logrus.Fields{"actorId": "anonymous"}
}

// pathID parses the :id route parameter as a positive integer.
func pathID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, errcode.ErrBadRequest
	}
	return uint(id), nil
}
