package route

import (
	"user-management/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// RouteConfig handles route registration
type RouteConfig struct {
	App *fiber.App
}

// NewRouteConfig initializes the router
func NewRouteConfig(app *fiber.App) *RouteConfig {
	return &RouteConfig{app}
}

func (r *RouteConfig) WelcomeRoutes(welcomeController *controller.WelcomeController) {
	r.App.Get("/", welcomeController.Hello)
	r.App.Get("/health", welcomeController.Health)
}

// RegisterAuthRoutes defines authentication routes
func (r *RouteConfig) RegisterAuthRoutes(authController *controller.AuthController) {
	auth := r.App.Group("/api/auth")
	{
		auth.Post("/login", authController.Login)
		auth.Post("/refresh-token", authController.RefreshToken)
		auth.Post("/logout", authController.Logout)
	}
}

// RegisterUserRoutes defines the user and lookup routes behind authMiddleware.
// The middleware is attached per route so the /api/auth group stays public.
func (r *RouteConfig) RegisterUserRoutes(userController *controller.UserController, lookupController *controller.LookupController, authMiddleware fiber.Handler) {
	api := r.App.Group("/api")
	{
		api.Get("/user/:id", authMiddleware, userController.Get)
		api.Post("/user", authMiddleware, userController.Create)
		api.Put("/user/:id", authMiddleware, userController.Update)
		api.Delete("/user/:id", authMiddleware, userController.Delete)
		api.Post("/users/DataTable", authMiddleware, userController.DataTable)
		api.Get("/roles", authMiddleware, lookupController.Roles)
		api.Get("/permissions", authMiddleware, lookupController.Permissions)
	}
}
