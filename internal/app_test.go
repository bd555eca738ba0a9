package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-management/internal/config/env"
	"user-management/internal/config/validation"
	webcfg "user-management/internal/config/web"
	"user-management/internal/constant"
	"user-management/internal/dto"
	"user-management/internal/model"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func newTestConfig(authEnabled bool) *env.Config {
	cfg := &env.Config{}
	cfg.App.Name = "TestApp"
	// Use specific origin to avoid wildcard+credentials panic in CORS
	cfg.Web.Cors.AllowOrigins = "http://example.com"
	cfg.Auth.Enabled = authEnabled
	cfg.JWT.Secret = "access_secret"
	cfg.JWT.RefreshSecret = "refresh_secret"
	cfg.JWT.AccessTokenExpiration = 60
	cfg.JWT.RefreshTokenExpiration = 120
	cfg.Redis.CacheTTL = 60
	return cfg
}

func newBootstrap(t *testing.T, cfg *env.Config, rdb *redis.Client) (*BootstrapConfig, *gorm.DB) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db := newTestDB(t)
	boot := NewApp(log, cfg, db, webcfg.NewFiber(log, cfg), validation.NewValidation(), rdb)
	return boot, db
}

// Table-driven tests to verify Bootstrap wires routes and middleware correctly.
func TestApp_Bootstrap(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	boot, _ := newBootstrap(t, newTestConfig(true), rdb)
	boot.Bootstrap()

	cases := []struct {
		name         string
		method       string
		path         string
		body         string
		setupReq     func(*http.Request)
		expectStatus int
		assert       func(*testing.T, *http.Response)
	}{
		{
			name:         "WelcomeRoute_ReturnsJSON",
			method:       http.MethodGet,
			path:         "/",
			expectStatus: http.StatusOK,
			assert: func(t *testing.T, resp *http.Response) {
				require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
				var out dto.WebResponse[map[string]string]
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
				require.Equal(t, "Welcome to TestApp!", out.Data["message"])
			},
		},
		{
			name:         "Health_Up",
			method:       http.MethodGet,
			path:         "/health",
			expectStatus: http.StatusOK,
		},
		{
			name:         "AuthLogin_BadRequestOnEmptyBody",
			method:       http.MethodPost,
			path:         "/api/auth/login",
			expectStatus: http.StatusBadRequest,
			assert: func(t *testing.T, resp *http.Response) {
				var out dto.WebResponse[any]
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
				require.Equal(t, "Invalid request parameters", out.Status.Description)
			},
		},
		{
			name:         "GetUser_UnauthorizedWithoutToken",
			method:       http.MethodGet,
			path:         "/api/user/1",
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "DataTable_UnauthorizedWithBadToken",
			method:       http.MethodPost,
			path:         "/api/users/DataTable",
			body:         `{"pageNumber":1,"pageSize":5}`,
			setupReq:     func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:   "Cors_Preflight",
			method: http.MethodOptions,
			path:   "/api/user",
			setupReq: func(r *http.Request) {
				r.Header.Set("Origin", "http://example.com")
				r.Header.Set("Access-Control-Request-Method", http.MethodPost)
			},
			expectStatus: http.StatusNoContent,
			assert: func(t *testing.T, resp *http.Response) {
				require.Equal(t, "http://example.com", resp.Header.Get("Access-Control-Allow-Origin"))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			req.Header.Set("Content-Type", "application/json")
			if tc.setupReq != nil {
				tc.setupReq(req)
			}
			resp, err := boot.web.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.expectStatus, resp.StatusCode)
			if tc.assert != nil {
				tc.assert(t, resp)
			}
		})
	}
}

func TestApp_Bootstrap_AuthDisabled(t *testing.T) {
	boot, db := newBootstrap(t, newTestConfig(false), nil)
	boot.Bootstrap()

	require.NoError(t, db.Create(&model.Role{Name: new(string)}).Error)

	req := httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	resp, err := boot.web.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Login is only exposed when authentication is on.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = boot.web.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApp_Bootstrap_LoginThenAccess(t *testing.T) {
	boot, db := newBootstrap(t, newTestConfig(true), nil)
	boot.Bootstrap()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	username, password := "ann", string(hash)
	require.NoError(t, db.Create(&model.User{Username: &username, Password: &password}).Error)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"ann","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := boot.web.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login dto.WebResponse[dto.TokenResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Data.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/api/roles", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	resp, err = boot.web.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_Bootstrap_CachesLookups(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	boot, db := newBootstrap(t, newTestConfig(false), rdb)
	boot.Bootstrap()

	name := "Admin"
	require.NoError(t, db.Create(&model.Role{Name: &name}).Error)

	resp, err := boot.web.Test(httptest.NewRequest(http.MethodGet, "/api/roles", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, mr.Exists(constant.CacheKeyRoles))
}

// Verify Run starts the server and shuts down when its context ends.
func TestApp_Run_StartAndShutdown(t *testing.T) {
	cfg := newTestConfig(false)
	// Use ephemeral port to avoid conflicts
	cfg.Web.Port = 0

	boot, _ := newBootstrap(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- boot.Run(ctx) }()

	// Allow some time for server to start
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
