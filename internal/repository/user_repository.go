package repository

import (
	"context"
	"strings"

	"user-management/internal/dto"
	"user-management/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userSortColumns maps a lower-cased orderBy key to its ORDER BY expression.
// Nullable columns sort as their zero value.
var userSortColumns = map[string]string{
	"id":           "users.id",
	"firstname":    "COALESCE(users.first_name, '')",
	"lastname":     "COALESCE(users.last_name, '')",
	"email":        "COALESCE(users.email, '')",
	"phone":        "COALESCE(users.phone, '')",
	"username":     "COALESCE(users.username, '')",
	"roleid":       "COALESCE(users.role_id, 0)",
	"permissionid": "COALESCE(users.permission_id, 0)",
	"createdat":    "users.created_at",
}

var userSearchColumns = []string{
	"users.first_name",
	"users.last_name",
	"users.email",
	"users.phone",
	"users.username",
	"roles.name",
	"permissions.name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type UserRepository struct {
	Repository[model.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		Repository: Repository[model.User]{db},
	}
}

// IsSortable reports whether orderBy names a sortable user field. Matching
// ignores case.
func IsSortable(orderBy string) bool {
	_, ok := userSortColumns[sortKey(orderBy)]
	return ok
}

// FindByID loads a user with its role and permission.
func (r *UserRepository) FindByID(ctx context.Context, user *model.User, id uint) error {
	return r.getDb(ctx).
		Preload("Role").
		Preload("Permission").
		Where("users.id = ?", id).
		Take(user).Error
}

// FindByLogin finds a user whose username or email equals login.
func (r *UserRepository) FindByLogin(ctx context.Context, user *model.User, login string) error {
	return r.getDb(ctx).
		Where("username = ? OR email = ?", login, login).
		Order("id").
		Take(user).Error
}

// List returns one page of users matching request and the number of matching
// rows before paging. request must already be normalized.
func (r *UserRepository) List(ctx context.Context, request *dto.UserListRequest) ([]model.User, int64, error) {
	query := func() *gorm.DB {
		return r.getDb(ctx).
			Model(&model.User{}).
			Joins("LEFT JOIN roles ON roles.id = users.role_id").
			Joins("LEFT JOIN permissions ON permissions.id = users.permission_id").
			Scopes(r.FilterUser(request.Search))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Pages past the last row are empty without querying.
	skip, ok := request.Skip()
	if !ok || int64(skip) >= total {
		return nil, total, nil
	}

	var users []model.User
	err := query().
		Scopes(r.SortUser(request)).
		Preload("Role").
		Preload("Permission").
		Offset(skip).
		Limit(request.PageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// FilterUser returns a scope matching search against the user's text fields
// and the names of its role and permission. LIKE wildcards in search are
// matched literally.
func (r *UserRepository) FilterUser(search string) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if search == "" {
			return tx
		}

		pattern := "%" + likeEscaper.Replace(search) + "%"
		conditions := make([]string, len(userSearchColumns))
		args := make([]any, len(userSearchColumns))
		for i, column := range userSearchColumns {
			conditions[i] = column + ` LIKE ? ESCAPE '\'`
			args[i] = pattern
		}

		return tx.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}
}

// SortUser returns a scope ordering by the requested field, falling back to
// the primary key. Unknown fields leave the default order in place.
func (r *UserRepository) SortUser(request *dto.UserListRequest) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		key := sortKey(request.OrderBy)
		if expr, ok := userSortColumns[key]; ok {
			tx = tx.Order(clause.OrderByColumn{
				Column: clause.Column{Name: expr, Raw: true},
				Desc:   request.IsDescending(),
			})
			if key == "id" {
				return tx
			}
		}
		return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "users.id", Raw: true}})
	}
}

func sortKey(orderBy string) string {
	return strings.ToLower(strings.TrimSpace(orderBy))
}
