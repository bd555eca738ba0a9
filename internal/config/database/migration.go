package database

import (
	"user-management/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RunMigrations creates or extends the roles, permissions and users tables.
// Roles and permissions go first so the users foreign keys can be created.
func RunMigrations(db *gorm.DB, log *logrus.Logger) error {
	log.Info("Starting database migrations")

	if err := db.AutoMigrate(&model.Role{}, &model.Permission{}, &model.User{}); err != nil {
		log.WithError(err).Error("Failed to run migrations")
		return err
	}

	log.Info("Database migrations completed successfully")
	return nil
}
