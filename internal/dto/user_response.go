package dto

import "time"

type UserResponse struct {
	ID         uint                `json:"id"`
	FirstName  *string             `json:"firstName,omitempty"`
	LastName   *string             `json:"lastName,omitempty"`
	Email      *string             `json:"email,omitempty"`
	Phone      *string             `json:"phone,omitempty"`
	Username   *string             `json:"username,omitempty"`
	Role       *RoleResponse       `json:"role,omitempty"`
	Permission *PermissionResponse `json:"permission,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

type RoleResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PermissionResponse struct {
	ID          uint    `json:"id"`
	Name        *string `json:"name,omitempty"`
	IsReadable  bool    `json:"isReadable"`
	IsWritable  bool    `json:"isWritable"`
	IsDeletable bool    `json:"isDeletable"`
}

type DeleteUserResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
}
