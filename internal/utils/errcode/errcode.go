package errcode

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// Authentication Errors
	ErrInvalidUsernameOrPassword = errors.New("invalid username or password")
	ErrInvalidToken              = errors.New("invalid token")
	ErrTokenBlacklisted          = errors.New("token is blacklisted")
	ErrAuthorizationHeader       = errors.New("authorization header is required")
	ErrBearerHeader              = errors.New("authorization header must use the Bearer scheme")
	ErrAccessTokenMissing        = errors.New("access token is missing")
	ErrTokenIsExpired            = errors.New("token is expired")
	ErrUnexpectedSignMethod      = errors.New("unexpected signing method")

	// User Errors
	ErrUserNotFound = errors.New("User not found")

	// Reference Errors
	ErrInvalidRole       = errors.New("Invalid Role: Role not found")
	ErrInvalidPermission = errors.New("Invalid Permission: Permission not found")

	// Token Errors
	ErrAccessTokenGeneration  = errors.New("could not generate access token")
	ErrRefreshTokenGeneration = errors.New("could not generate refresh token")
	ErrTokenInvalidation      = errors.New("failed to invalidate token")

	// Common Errors
	ErrBadRequest          = errors.New("Invalid request parameters")
	ErrPasswordEncryption  = errors.New("password encryption error")
	ErrDatabaseError       = errors.New("Database error")
	ErrInternalServerError = errors.New("Internal server error")
)

// errorStatusMap maps application errors to their respective HTTP status codes
var errorStatusMap = map[error]int{
	// 401 Unauthorized Errors
	ErrInvalidUsernameOrPassword: fiber.StatusUnauthorized,
	ErrInvalidToken:              fiber.StatusUnauthorized,
	ErrTokenBlacklisted:          fiber.StatusUnauthorized,
	ErrAuthorizationHeader:       fiber.StatusUnauthorized,
	ErrBearerHeader:              fiber.StatusUnauthorized,
	ErrAccessTokenMissing:        fiber.StatusUnauthorized,
	ErrTokenIsExpired:            fiber.StatusUnauthorized,
	ErrUnexpectedSignMethod:      fiber.StatusUnauthorized,

	// 404 Not Found Errors
	ErrUserNotFound: fiber.StatusNotFound,

	// 400 Bad Request Errors
	ErrInvalidRole:       fiber.StatusBadRequest,
	ErrInvalidPermission: fiber.StatusBadRequest,
	ErrBadRequest:        fiber.StatusBadRequest,

	// 500 Internal Server Errors
	ErrAccessTokenGeneration:  fiber.StatusInternalServerError,
	ErrRefreshTokenGeneration: fiber.StatusInternalServerError,
	ErrTokenInvalidation:      fiber.StatusInternalServerError,
	ErrPasswordEncryption:     fiber.StatusInternalServerError,
	ErrDatabaseError:          fiber.StatusInternalServerError,
	ErrInternalServerError:    fiber.StatusInternalServerError,
}

// GetHTTPStatus retrieves the HTTP status code for a given error. Wrapped
// errors resolve to the status of the sentinel they wrap.
func GetHTTPStatus(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	if statusCode, exists := errorStatusMap[err]; exists {
		return statusCode, true
	}
	for sentinel, statusCode := range errorStatusMap {
		if errors.Is(err, sentinel) {
			return statusCode, true
		}
	}
	return 0, false
}

// StoreError reports a failure of the persistence layer. Its message embeds
// the driver's error text.
type StoreError struct {
	Err error
}

// NewStoreError wraps err, or returns nil when err is nil.
func NewStoreError(err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Err: err}
}

func (e *StoreError) Error() string {
	return ErrDatabaseError.Error() + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrDatabaseError, e.Err}
}
