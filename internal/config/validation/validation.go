package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"user-management/internal/utils/errcode"
)

type ValidationError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

type Validation struct {
	Validator *validator.Validate
}

func NewValidation() *Validation {
	return &Validation{
		Validator: validator.New(),
	}
}

// ParseAndValidate decodes the request body into req and validates it. An empty
// or malformed body is reported as errcode.ErrBadRequest.
func (v *Validation) ParseAndValidate(ctx *fiber.Ctx, req any) error {
	if err := ctx.BodyParser(req); err != nil {
		return errcode.ErrBadRequest
	}
	return v.Validate(req)
}

func (v *Validation) Validate(data any) error {
	err := v.Validator.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("unexpected validation error: %w", err)
	}

	errs := make(map[string][]string)
	dataType := reflect.TypeOf(data)
	if dataType.Kind() == reflect.Pointer {
		dataType = dataType.Elem()
	}

	for _, fieldErr := range validationErrors {
		jsonTag := strings.ToLower(fieldErr.StructField())
		if field, ok := dataType.FieldByName(fieldErr.StructField()); ok {
			if name, _, _ := strings.Cut(field.Tag.Get("json"), ","); name != "" {
				jsonTag = name
			}
		}

		var message string
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", jsonTag)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", jsonTag)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters long", jsonTag, fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must not exceed %s characters", jsonTag, fieldErr.Param())
		case "alpha":
			message = fmt.Sprintf("%s must contain only alphabetic characters", jsonTag)
		case "numeric":
			message = fmt.Sprintf("%s must be numeric", jsonTag)
		default:
			message = fmt.Sprintf("%s is invalid (%s)", jsonTag, fieldErr.Tag())
		}

		errs[jsonTag] = append(errs[jsonTag], message)
	}

	return &ValidationError{
		Message: "Validation failed",
		Errors:  errs,
	}
}
