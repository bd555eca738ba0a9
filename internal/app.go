package app

import (
	"context"
	"errors"
	"fmt"

	"user-management/internal/config/env"
	"user-management/internal/config/validation"
	"user-management/internal/controller"
	"user-management/internal/middleware"
	"user-management/internal/repository"
	"user-management/internal/route"
	"user-management/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	db         *gorm.DB
	web        *fiber.App
	log        *logrus.Logger
	config     *env.Config
	validation *validation.Validation
	redis      *redis.Client
}

// NewApp collects the application dependencies. redis may be nil, in which
// case caching is disabled and revoked tokens are kept in memory.
func NewApp(log *logrus.Logger, config *env.Config, db *gorm.DB, web *fiber.App, validation *validation.Validation, redis *redis.Client) *BootstrapConfig {
	return &BootstrapConfig{db, web, log, config, validation, redis}
}

func (app *BootstrapConfig) Bootstrap() {
	// setup repositories
	userRepository := repository.NewUserRepository(app.db)
	roleRepository := repository.NewRoleRepository(app.db)
	permissionRepository := repository.NewPermissionRepository(app.db)
	unitOfWork := repository.NewUnitOfWork(app.db)

	var blacklistRepository repository.TokenBlacklistRepository = repository.NewTokenBlacklist()
	if app.redis != nil {
		blacklistRepository = repository.NewRedisTokenBlacklist(app.redis)
	}

	// setup service
	redisService := service.NewRedisService(app.redis, app.log)
	jwtService := service.NewJwtService(app.log, app.config)
	blacklistService := service.NewBlacklistService(app.log, jwtService, blacklistRepository)
	authService := service.NewAuthService(jwtService, userRepository, blacklistService, app.log)
	userService := service.NewUserService(unitOfWork, userRepository, roleRepository, permissionRepository, redisService, app.config, app.log)
	lookupService := service.NewLookupService(roleRepository, permissionRepository, redisService, app.config, app.log)

	// setup controller
	welcomeController := controller.NewWelcomeController(app.db, app.config, app.log)
	authController := controller.NewAuthController(authService, app.log, app.validation)
	userController := controller.NewUserController(userService, app.validation, app.log)
	lookupController := controller.NewLookupController(lookupService)

	// setup middleware
	app.web.Use(middleware.Cors(app.config))
	authMiddleware := middleware.AuthMiddleware(app.config, jwtService, blacklistService, app.log)

	// setup route
	routeConfig := route.NewRouteConfig(app.web)
	routeConfig.WelcomeRoutes(welcomeController)
	if app.config.Auth.Enabled {
		routeConfig.RegisterAuthRoutes(authController)
	}
	routeConfig.RegisterUserRoutes(userController, lookupController, authMiddleware)
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully.
func (app *BootstrapConfig) Run(ctx context.Context) error {
	app.Bootstrap()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		address := fmt.Sprintf(":%d", app.config.Web.Port)
		app.log.WithField("address", address).Info("Starting HTTP server")
		if err := app.web.Listen(address); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		app.log.Info("Shutting down HTTP server")
		return app.web.ShutdownWithContext(context.Background())
	})

	return g.Wait()
}
