package repository

import (
	"context"
	"fmt"
	"testing"

	"user-management/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

// newTestDB opens a private in-memory SQLite database with the schema
// migrated and foreign keys enforced. A single connection keeps every
// statement on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
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

func seedRole(t *testing.T, db *gorm.DB, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: strPtr(name)}
	require.NoError(t, db.Create(role).Error)
	return role
}

func seedPermission(t *testing.T, db *gorm.DB, name string, readable, writable, deletable bool) *model.Permission {
	t.Helper()
	permission := &model.Permission{Name: strPtr(name), IsReadable: readable, IsWritable: writable, IsDeletable: deletable}
	require.NoError(t, db.Create(permission).Error)
	return permission
}

func TestRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepository(db)
	ctx := context.Background()

	role := &model.Role{Name: strPtr("Admin")}
	require.NoError(t, repo.Create(ctx, role))
	require.NotZero(t, role.ID)

	count, err := repo.CountById(ctx, role.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	role.Name = strPtr("Administrator")
	require.NoError(t, repo.Update(ctx, role))

	var found model.Role
	require.NoError(t, repo.FindById(ctx, &found, role.ID))
	require.Equal(t, "Administrator", *found.Name)

	require.NoError(t, repo.Delete(ctx, &found))
	err = repo.FindById(ctx, &model.Role{}, role.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_FindAllOrdersById(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	for _, name := range []string{"Viewer", "Admin", "Editor"} {
		seedRole(t, db, name)
	}

	roles, err := NewRoleRepository(db).FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	for i, role := range roles {
		require.Equal(t, uint(i+1), role.ID)
	}

	permissions, err := NewPermissionRepository(db).FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, permissions)
}

func TestRepository_CreateSkipsAssociations(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Username: strPtr("ghost"), Role: &model.Role{Name: strPtr("Phantom")}}
	require.NoError(t, repo.Create(context.Background(), user))

	var roles int64
	require.NoError(t, db.Model(&model.Role{}).Count(&roles).Error)
	require.Zero(t, roles)
	require.Nil(t, user.RoleID)
}

func TestRepository_DeleteReferenceNullsUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	roleRepo := NewRoleRepository(db)
	permissionRepo := NewPermissionRepository(db)

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	require.Equal(t, 1, enabled)

	role := seedRole(t, db, "Admin")
	permission := seedPermission(t, db, "Permission_ada", true, true, false)
	user := &model.User{Username: strPtr("ada"), RoleID: uintPtr(role.ID), PermissionID: uintPtr(permission.ID)}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, roleRepo.Delete(ctx, role))

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	require.Nil(t, found.RoleID)
	require.Equal(t, permission.ID, *found.PermissionID)

	require.NoError(t, permissionRepo.Delete(ctx, permission))

	found = model.User{}
	require.NoError(t, db.First(&found, user.ID).Error)
	require.Nil(t, found.PermissionID)
	require.Equal(t, "ada", *found.Username)
}

func TestRepository_ForeignKeysRejectUnknownRole(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{Username: strPtr("ghost"), RoleID: uintPtr(404)}
	require.Error(t, NewUserRepository(db).Create(context.Background(), user))
}

func TestUnitOfWork_Do(t *testing.T) {
	cases := []struct {
		name        string
		fn          func(ctx context.Context, repo *RoleRepository) error
		expectErr   string
		expectCount int64
	}{
		{
			name: "Success_Commits",
			fn: func(ctx context.Context, repo *RoleRepository) error {
				return repo.Create(ctx, &model.Role{Name: strPtr("Admin")})
			},
			expectCount: 1,
		},
		{
			name: "FnError_RollsBack",
			fn: func(ctx context.Context, repo *RoleRepository) error {
				if err := repo.Create(ctx, &model.Role{Name: strPtr("Admin")}); err != nil {
					return err
				}
				return fmt.Errorf("fn failed")
			},
			expectErr:   "fn failed",
			expectCount: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			repo := NewRoleRepository(db)
			uow := NewUnitOfWork(db)

			err := uow.Do(context.Background(), func(ctx context.Context) error {
				return tc.fn(ctx, repo)
			})
			if tc.expectErr != "" {
				require.EqualError(t, err, tc.expectErr)
			} else {
				require.NoError(t, err)
			}

			var count int64
			require.NoError(t, db.Model(&model.Role{}).Count(&count).Error)
			require.Equal(t, tc.expectCount, count)
		})
	}
}

func TestUnitOfWork_NestedJoinsOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewRoleRepository(db)
	uow := NewUnitOfWork(db)

	err := uow.Do(context.Background(), func(ctx context.Context) error {
		if err := uow.Do(ctx, func(inner context.Context) error {
			return repo.Create(inner, &model.Role{Name: strPtr("Inner")})
		}); err != nil {
			return err
		}
		return fmt.Errorf("outer failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Role{}).Count(&count).Error)
	require.Zero(t, count)
}
