package seeder

import (
	"context"
	"errors"

	"user-management/internal/model"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password"

type seedUser struct {
	firstName, lastName, username, email, phone string
	role                                        string
	readable, writable, deletable               bool
}

var roles = []string{"Admin", "Editor", "Viewer"}

var users = []seedUser{
	{"Ada", "Admin", "admin", "admin@example.com", "555-0100", "Admin", true, true, true},
	{"Ed", "Editor", "editor", "editor@example.com", "555-0101", "Editor", true, true, false},
	{"Vi", "Viewer", "viewer", "viewer@example.com", "555-0102", "Viewer", true, false, false},
}

// ErrAlreadySeeded is returned when roles exist and clear was not requested.
var ErrAlreadySeeded = errors.New("database already contains roles")

// Seed inserts the sample roles, one permission per user, and the users. With
// clear set, existing users, permissions and roles are removed first.
func Seed(ctx context.Context, db *gorm.DB, log *logrus.Logger, clear bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	password := string(hash)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, table := range []any{&model.User{}, &model.Permission{}, &model.Role{}} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
					return err
				}
			}
			log.Info("Cleared existing users, permissions and roles")
		} else {
			var count int64
			if err := tx.Model(&model.Role{}).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrAlreadySeeded
			}
		}

		roleIDs := make(map[string]uint, len(roles))
		for _, name := range roles {
			role := &model.Role{Name: &name}
			if err := tx.Create(role).Error; err != nil {
				return err
			}
			roleIDs[name] = role.ID
		}

		for _, u := range users {
			permission := &model.Permission{
				Name:        &u.username,
				IsReadable:  u.readable,
				IsWritable:  u.writable,
				IsDeletable: u.deletable,
			}
			if err := tx.Create(permission).Error; err != nil {
				return err
			}

			roleID := roleIDs[u.role]
			user := &model.User{
				FirstName:    &u.firstName,
				LastName:     &u.lastName,
				Email:        &u.email,
				Phone:        &u.phone,
				Username:     &u.username,
				Password:     &password,
				RoleID:       &roleID,
				PermissionID: &permission.ID,
			}
			if err := tx.Omit("Role", "Permission").Create(user).Error; err != nil {
				return err
			}
			log.WithField("username", u.username).Info("Seeded user")
		}

		return nil
	})
}
