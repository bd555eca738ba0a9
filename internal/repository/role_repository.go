package repository

import (
	"user-management/internal/model"

	"gorm.io/gorm"
)

type RoleRepository struct {
	Repository[model.Role]
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		Repository: Repository[model.Role]{db},
	}
}
