package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"user-management/internal/config/env"
	"user-management/internal/constant"
	"user-management/internal/dto"
	"user-management/internal/dto/converter"
	"user-management/internal/model"
	"user-management/internal/repository"
	"user-management/internal/utils/errcode"
	"user-management/internal/utils/errwrap"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	uow                  *repository.UnitOfWork
	userRepository       *repository.UserRepository
	roleRepository       *repository.RoleRepository
	permissionRepository *repository.PermissionRepository
	redisService         *RedisService
	config               *env.Config
	log                  *logrus.Logger
	tracer               trace.Tracer
	hashPassword         func(password []byte, cost int) ([]byte, error)
}

func NewUserService(
	uow *repository.UnitOfWork,
	userRepository *repository.UserRepository,
	roleRepository *repository.RoleRepository,
	permissionRepository *repository.PermissionRepository,
	redisService *RedisService,
	config *env.Config,
	log *logrus.Logger,
) *UserService {
	return &UserService{
		uow:                  uow,
		userRepository:       userRepository,
		roleRepository:       roleRepository,
		permissionRepository: permissionRepository,
		redisService:         redisService,
		config:               config,
		log:                  log,
		tracer:               otel.Tracer("UserService"),
		hashPassword:         bcrypt.GenerateFromPassword,
	}
}

// GetUser retrieves a user with its role and permission.
func (s *UserService) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "UserService.GetUser")
	defer span.End()

	user := new(model.User)
	if err := s.userRepository.FindByID(spanCtx, user, id); err != nil {
		return nil, s.userLookupError(spanCtx, err, id)
	}

	return converter.UserToResponse(user), nil
}

// ListUsers returns one page of the users data table.
func (s *UserService) ListUsers(ctx context.Context, request *dto.UserListRequest) (*dto.PageResponse[*dto.UserResponse], error) {
	spanCtx, span := s.tracer.Start(ctx, "UserService.ListUsers")
	defer span.End()

	logger := s.log.WithContext(spanCtx)

	request.Normalize(s.config.Pagination.MaxPageSize)
	if request.OrderBy != "" && !repository.IsSortable(request.OrderBy) {
		logger.WithField("orderBy", request.OrderBy).Warn("Ignoring unknown sort field")
	}

	users, total, err := s.userRepository.List(spanCtx, request)
	if err != nil {
		logger.WithError(err).Error("Error retrieving users")
		return nil, errcode.NewStoreError(err)
	}

	_, convertSpan := s.tracer.Start(spanCtx, "ConvertUsersToDTO")
	items := make([]*dto.UserResponse, len(users))
	for i := range users {
		items[i] = converter.UserToRowResponse(&users[i])
	}
	convertSpan.End()

	return dto.NewPageResponse(items, request.PageNumber, request.PageSize, total), nil
}

// CreateUser stores a new user. The role and permission references are
// resolved and written in the same transaction as the user row.
func (s *UserService) CreateUser(ctx context.Context, request *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "UserService.CreateUser")
	defer span.End()

	logger := s.log.WithContext(spanCtx)

	password, err := s.encryptPassword(spanCtx, request.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Phone:     request.Phone,
		Username:  request.Username,
		Password:  password,
	}

	err = s.uow.Do(spanCtx, func(txCtx context.Context) error {
		if hasValue(request.RoleID) {
			role, err := s.resolveRole(txCtx, *request.RoleID, func(uint) error { return errcode.ErrInvalidRole })
			if err != nil {
				return err
			}
			user.RoleID = &role.ID
		}

		if request.Permission != nil {
			permission, err := s.createOrAttachPermission(txCtx, request.Permission, user.GetUsername())
			if err != nil {
				return err
			}
			user.PermissionID = &permission.ID
		}

		if err := s.userRepository.Create(txCtx, user); err != nil {
			return errcode.NewStoreError(err)
		}

		return errcode.NewStoreError(s.userRepository.FindByID(txCtx, user, user.ID))
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to create user")
		return nil, classify(err)
	}

	if request.Permission != nil {
		s.evictPermissions(spanCtx)
	}

	logger.WithField("userId", user.ID).Info("User created")
	return converter.UserToResponse(user), nil
}

// UpdateUser applies the non-nil fields of request to the user. A permission
// payload updates the user's permission in place, or mints one when the user
// has none.
func (s *UserService) UpdateUser(ctx context.Context, id uint, request *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "UserService.UpdateUser")
	defer span.End()

	logger := s.log.WithContext(spanCtx).WithField("userId", id)

	password, err := s.encryptPassword(spanCtx, request.Password)
	if err != nil {
		return nil, err
	}

	user := new(model.User)
	err = s.uow.Do(spanCtx, func(txCtx context.Context) error {
		if err := s.userRepository.FindByID(txCtx, user, id); err != nil {
			return s.userLookupError(txCtx, err, id)
		}

		assignIfSet(&user.FirstName, request.FirstName)
		assignIfSet(&user.LastName, request.LastName)
		assignIfSet(&user.Email, request.Email)
		assignIfSet(&user.Phone, request.Phone)
		assignIfSet(&user.Username, request.Username)
		assignIfSet(&user.Password, password)

		if hasValue(request.RoleID) {
			role, err := s.resolveRole(txCtx, *request.RoleID, func(roleID uint) error {
				return errwrap.Wrapf(errcode.ErrInvalidRole, "Role with ID %d not found", roleID)
			})
			if err != nil {
				return err
			}
			user.RoleID = &role.ID
		}

		if request.Permission != nil {
			if user.Permission == nil {
				permission, err := s.mintPermission(txCtx, request.Permission, user.GetUsername())
				if err != nil {
					return err
				}
				user.PermissionID = &permission.ID
			} else {
				applyPermissionFlags(user.Permission, request.Permission)
				if err := s.permissionRepository.Update(txCtx, user.Permission); err != nil {
					return errcode.NewStoreError(err)
				}
			}
		}

		user.Role, user.Permission = nil, nil
		if err := s.userRepository.Update(txCtx, user); err != nil {
			return errcode.NewStoreError(err)
		}

		return errcode.NewStoreError(s.userRepository.FindByID(txCtx, user, id))
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to update user")
		return nil, classify(err)
	}

	if request.Permission != nil {
		s.evictPermissions(spanCtx)
	}

	logger.Info("User updated")
	return converter.UserToResponse(user), nil
}

// DeleteUser removes the user row. Its role and permission are kept.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	spanCtx, span := s.tracer.Start(ctx, "UserService.DeleteUser")
	defer span.End()

	logger := s.log.WithContext(spanCtx).WithField("userId", id)

	user := new(model.User)
	if err := s.userRepository.FindById(spanCtx, user, id); err != nil {
		return s.userLookupError(spanCtx, err, id)
	}

	if err := s.userRepository.Delete(spanCtx, user); err != nil {
		logger.WithError(err).Error("Failed to delete user")
		return errcode.NewStoreError(err)
	}

	logger.Info("User deleted")
	return nil
}

func (s *UserService) userLookupError(ctx context.Context, err error, id uint) error {
	logger := s.log.WithContext(ctx).WithField("userId", id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn("User not found")
		return errcode.ErrUserNotFound
	}
	logger.WithError(err).Error("Failed to load user")
	return errcode.NewStoreError(err)
}

// resolveRole parses rawID and loads the role. notFound builds the error
// returned when no role has that id.
func (s *UserService) resolveRole(ctx context.Context, rawID string, notFound func(id uint) error) (*model.Role, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, errwrap.Wrapf(errcode.ErrInvalidRole, "Invalid RoleId format: %s", rawID)
	}

	role := new(model.Role)
	if err := s.roleRepository.FindById(ctx, role, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(id)
		}
		return nil, errcode.NewStoreError(err)
	}
	return role, nil
}

// createOrAttachPermission overwrites the flags of the referenced permission,
// or mints a permission for username when the request names none.
func (s *UserService) createOrAttachPermission(ctx context.Context, request *dto.UpdatePermissionRequest, username string) (*model.Permission, error) {
	if !hasValue(request.PermissionID) {
		return s.mintPermission(ctx, request, username)
	}

	id, err := parseID(*request.PermissionID)
	if err != nil {
		return nil, errcode.ErrInvalidPermission
	}

	permission := new(model.Permission)
	if err := s.permissionRepository.FindById(ctx, permission, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.ErrInvalidPermission
		}
		return nil, errcode.NewStoreError(err)
	}

	applyPermissionFlags(permission, request)
	if err := s.permissionRepository.Update(ctx, permission); err != nil {
		return nil, errcode.NewStoreError(err)
	}
	return permission, nil
}

func (s *UserService) mintPermission(ctx context.Context, request *dto.UpdatePermissionRequest, username string) (*model.Permission, error) {
	name := model.PermissionNameFor(username)
	permission := &model.Permission{Name: &name}
	applyPermissionFlags(permission, request)

	if err := s.permissionRepository.Create(ctx, permission); err != nil {
		return nil, errcode.NewStoreError(err)
	}
	return permission, nil
}

// encryptPassword hashes a non-empty password. Nil or empty input yields nil.
func (s *UserService) encryptPassword(ctx context.Context, password *string) (*string, error) {
	if !hasValue(password) {
		return nil, nil
	}

	_, hashSpan := s.tracer.Start(ctx, "HashPassword")
	hashed, err := s.hashPassword([]byte(*password), bcrypt.DefaultCost)
	hashSpan.End()
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Error("Failed to hash password")
		return nil, errcode.ErrPasswordEncryption
	}

	encrypted := string(hashed)
	return &encrypted, nil
}

func (s *UserService) evictPermissions(ctx context.Context) {
	if err := s.redisService.Del(ctx, constant.CacheKeyPermissions); err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("Failed to evict cached permissions")
	}
}

// classify keeps errors that already map to a status and reports the rest as
// store failures.
func classify(err error) error {
	if _, ok := errcode.GetHTTPStatus(err); ok {
		return err
	}
	return errcode.NewStoreError(err)
}

func applyPermissionFlags(permission *model.Permission, request *dto.UpdatePermissionRequest) {
	permission.IsReadable = request.IsReadable
	permission.IsWritable = request.IsWriteable
	permission.IsDeletable = request.IsDeletable
}

func assignIfSet(target **string, value *string) {
	if value != nil {
		*target = value
	}
}

func hasValue(value *string) bool {
	return value != nil && *value != ""
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
