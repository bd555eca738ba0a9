package dto

import (
	"math"
	"strings"
)

// UserListRequest drives the users data table.
type UserListRequest struct {
	Search         string `json:"search"`
	OrderBy        string `json:"orderBy"`
	OrderDirection string `json:"orderDirection"`
	PageNumber     int    `json:"pageNumber"`
	PageSize       int    `json:"pageSize"`
}

// Normalize clamps the page bounds and trims the search term. maxPageSize of
// zero leaves the page size unbounded.
func (r *UserListRequest) Normalize(maxPageSize int) {
	r.PageNumber = max(1, r.PageNumber)
	r.PageSize = max(1, r.PageSize)
	if maxPageSize > 0 && r.PageSize > maxPageSize {
		r.PageSize = maxPageSize
	}
	r.Search = strings.TrimSpace(r.Search)
}

// IsDescending reports whether the rows are requested in descending order.
func (r *UserListRequest) IsDescending() bool {
	return strings.EqualFold(strings.TrimSpace(r.OrderDirection), "desc")
}

// Skip is the number of rows before the requested page. ok is false when the
// offset does not fit in an int, which no table can reach.
func (r *UserListRequest) Skip() (skip int, ok bool) {
	pages := r.PageNumber - 1
	if pages > 0 && r.PageSize > math.MaxInt/pages {
		return 0, false
	}
	return pages * r.PageSize, true
}

// UpdateUserRequest is shared by create and update. Nil fields are left
// untouched on update.
type UpdateUserRequest struct {
	FirstName  *string                  `json:"firstName" validate:"omitempty,max=100"`
	LastName   *string                  `json:"lastName" validate:"omitempty,max=100"`
	Email      *string                  `json:"email" validate:"omitempty,email,max=200"`
	Phone      *string                  `json:"phone" validate:"omitempty,max=50"`
	Username   *string                  `json:"username" validate:"omitempty,max=100"`
	Password   *string                  `json:"password" validate:"omitempty,max=72"`
	RoleID     *string                  `json:"roleId"`
	Permission *UpdatePermissionRequest `json:"permission"`
}

type UpdatePermissionRequest struct {
	PermissionID *string `json:"permissionId"`
	IsReadable   bool    `json:"isReadable"`
	IsWriteable  bool    `json:"isWriteable"`
	IsDeletable  bool    `json:"isDeletable"`
}
