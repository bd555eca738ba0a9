package controller

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"user-management/internal/config/env"
	"user-management/internal/config/validation"
	"user-management/internal/config/web"
	"user-management/internal/dto"
	"user-management/internal/middleware"
	"user-management/internal/model"
	"user-management/internal/repository"
	"user-management/internal/service"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	app    *fiber.App
	db     *gorm.DB
	config *env.Config
	jwt    *service.JwtService
	logs   *logtest.Hook
}

func testConfig() *env.Config {
	cfg := &env.Config{}
	cfg.App.Name = "User Management"
	cfg.JWT.Secret = "access_secret"
	cfg.JWT.RefreshSecret = "refresh_secret"
	cfg.JWT.AccessTokenExpiration = 60
	cfg.JWT.RefreshTokenExpiration = 120
	return cfg
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.Permission{}, &model.User{}))
	return db
}

// newTestServer wires the controllers against SQLite the way the application
// does, without authentication.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, testConfig())
}

// newTestServerWithConfig puts the user routes behind the auth middleware,
// which passes everything through unless cfg.Auth.Enabled is set.
func newTestServerWithConfig(t *testing.T, cfg *env.Config) *testServer {
	t.Helper()

	db := newTestDB(t)
	log, logs := logtest.NewNullLogger()
	validator := validation.NewValidation()

	userRepository := repository.NewUserRepository(db)
	roleRepository := repository.NewRoleRepository(db)
	permissionRepository := repository.NewPermissionRepository(db)
	redisService := service.NewRedisService(nil, log)
	jwtService := service.NewJwtService(log, cfg)
	blacklistService := service.NewBlacklistService(log, jwtService, repository.NewTokenBlacklist())

	userService := service.NewUserService(repository.NewUnitOfWork(db), userRepository, roleRepository, permissionRepository, redisService, cfg, log)
	lookupService := service.NewLookupService(roleRepository, permissionRepository, redisService, cfg, log)
	authService := service.NewAuthService(jwtService, userRepository, blacklistService, log)

	users := NewUserController(userService, validator, log)
	lookups := NewLookupController(lookupService)
	auth := NewAuthController(authService, log, validator)
	welcome := NewWelcomeController(db, cfg, log)

	app := web.NewFiber(log, cfg)
	app.Get("/", welcome.Hello)
	app.Get("/health", welcome.Health)

	authMiddleware := middleware.AuthMiddleware(cfg, jwtService, blacklistService, log)

	api := app.Group("/api")
	api.Get("/user/:id", authMiddleware, users.Get)
	api.Post("/user", authMiddleware, users.Create)
	api.Put("/user/:id", authMiddleware, users.Update)
	api.Delete("/user/:id", authMiddleware, users.Delete)
	api.Post("/users/DataTable", authMiddleware, users.DataTable)
	api.Get("/roles", lookups.Roles)
	api.Get("/permissions", lookups.Permissions)
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/refresh-token", auth.RefreshToken)
	api.Post("/auth/logout", auth.Logout)

	return &testServer{app: app, db: db, config: cfg, jwt: jwtService, logs: logs}
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	return s.doWithToken(t, method, path, body, "")
}

func (s *testServer) doWithToken(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) dto.WebResponse[T] {
	t.Helper()
	defer resp.Body.Close()

	var out dto.WebResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func strPtr(s string) *string { return &s }

func (s *testServer) seedRole(t *testing.T, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: strPtr(name)}
	require.NoError(t, s.db.Create(role).Error)
	return role
}

func (s *testServer) seedPermission(t *testing.T, name string, readable, writable, deletable bool) *model.Permission {
	t.Helper()
	permission := &model.Permission{Name: strPtr(name), IsReadable: readable, IsWritable: writable, IsDeletable: deletable}
	require.NoError(t, s.db.Create(permission).Error)
	return permission
}

func (s *testServer) seedUsers(t *testing.T, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		user := &model.User{
			FirstName: strPtr(fmt.Sprintf("First%02d", i)),
			LastName:  strPtr(fmt.Sprintf("Last%02d", i)),
			Email:     strPtr(fmt.Sprintf("user%02d@example.com", i)),
			Username:  strPtr(fmt.Sprintf("user%02d", i)),
		}
		require.NoError(t, s.db.Create(user).Error)
	}
}
