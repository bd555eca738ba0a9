package service

import (
	"io"
	"testing"

	"user-management/internal/config/env"
	"user-management/internal/model"
	"user-management/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *env.Config {
	cfg := &env.Config{}
	cfg.JWT.Secret = "access_secret"
	cfg.JWT.RefreshSecret = "refresh_secret"
	cfg.JWT.AccessTokenExpiration = 60
	cfg.JWT.RefreshTokenExpiration = 120
	cfg.Redis.CacheTTL = 60
	return cfg
}

func strPtr(s string) *string { return &s }

// newTestDB opens a private in-memory SQLite database with the schema
// migrated.
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

func closeDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

type testServices struct {
	db     *gorm.DB
	config *env.Config
	users  *UserService
	lookup *LookupService
	redis  *RedisService
}

func newTestServices(t *testing.T, client *redis.Client) *testServices {
	t.Helper()

	db := newTestDB(t)
	cfg := testConfig()
	log := silentLogger()

	userRepository := repository.NewUserRepository(db)
	roleRepository := repository.NewRoleRepository(db)
	permissionRepository := repository.NewPermissionRepository(db)
	redisService := NewRedisService(client, log)

	users := NewUserService(repository.NewUnitOfWork(db), userRepository, roleRepository, permissionRepository, redisService, cfg, log)
	users.hashPassword = func(password []byte, _ int) ([]byte, error) {
		return bcrypt.GenerateFromPassword(password, bcrypt.MinCost)
	}

	return &testServices{
		db:     db,
		config: cfg,
		users:  users,
		lookup: NewLookupService(roleRepository, permissionRepository, redisService, cfg, log),
		redis:  redisService,
	}
}
