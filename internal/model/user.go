package model

import "time"

// User string columns are nullable; a nil pointer is stored as NULL.
type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FirstName    *string     `json:"firstName,omitempty"`
	LastName     *string     `json:"lastName,omitempty"`
	Email        *string     `json:"email,omitempty"`
	Phone        *string     `json:"phone,omitempty"`
	Username     *string     `json:"username,omitempty"`
	Password     *string     `json:"-"`
	RoleID       *uint       `json:"roleId,omitempty"`
	Role         *Role       `json:"role,omitempty"`
	PermissionID *uint       `json:"permissionId,omitempty"`
	Permission   *Permission `json:"permission,omitempty"`
	CreatedAt    time.Time   `gorm:"<-:create;autoCreateTime:false;not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// GetUsername returns the username or "" when it is unset.
func (u *User) GetUsername() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}
