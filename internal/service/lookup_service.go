package service

import (
	"context"

	"user-management/internal/config/env"
	"user-management/internal/constant"
	"user-management/internal/dto"
	"user-management/internal/dto/converter"
	"user-management/internal/repository"
	"user-management/internal/utils/errcode"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// LookupService serves the role and permission lists, read through the Redis
// cache when one is configured.
type LookupService struct {
	roleRepository       *repository.RoleRepository
	permissionRepository *repository.PermissionRepository
	redisService         *RedisService
	config               *env.Config
	log                  *logrus.Logger
	tracer               trace.Tracer
}

func NewLookupService(
	roleRepository *repository.RoleRepository,
	permissionRepository *repository.PermissionRepository,
	redisService *RedisService,
	config *env.Config,
	log *logrus.Logger,
) *LookupService {
	return &LookupService{roleRepository, permissionRepository, redisService, config, log, otel.Tracer("LookupService")}
}

func (s *LookupService) ListRoles(ctx context.Context) ([]*dto.RoleResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "LookupService.ListRoles")
	defer span.End()

	return cachedList(spanCtx, s, constant.CacheKeyRoles, func(ctx context.Context) ([]*dto.RoleResponse, error) {
		roles, err := s.roleRepository.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		responses := make([]*dto.RoleResponse, len(roles))
		for i := range roles {
			responses[i] = converter.RoleToResponse(&roles[i])
		}
		return responses, nil
	})
}

func (s *LookupService) ListPermissions(ctx context.Context) ([]*dto.PermissionResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "LookupService.ListPermissions")
	defer span.End()

	return cachedList(spanCtx, s, constant.CacheKeyPermissions, func(ctx context.Context) ([]*dto.PermissionResponse, error) {
		permissions, err := s.permissionRepository.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		responses := make([]*dto.PermissionResponse, len(permissions))
		for i := range permissions {
			responses[i] = converter.PermissionToResponse(&permissions[i])
		}
		return responses, nil
	})
}

// cachedList returns the list stored under key, loading and caching it on a
// miss. Cache failures fall back to the store.
func cachedList[T any](ctx context.Context, s *LookupService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	logger := s.log.WithContext(ctx).WithField("key", key)

	if cached, found := s.redisService.Get(ctx, key); found {
		var items []T
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
		logger.Warn("Discarding unreadable cache entry")
	}

	items, err := load(ctx)
	if err != nil {
		logger.WithError(err).Error("Failed to load lookup list")
		return nil, errcode.NewStoreError(err)
	}

	if _, err := s.redisService.Set(ctx, key, items, s.config.GetCacheTTL()); err != nil {
		logger.WithError(err).Warn("Failed to cache lookup list")
	}

	return items, nil
}
