package repository

import (
	"user-management/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	Repository[model.Permission]
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{
		Repository: Repository[model.Permission]{db},
	}
}
