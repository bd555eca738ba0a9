package converter

import (
	"user-management/internal/dto"
	"user-management/internal/model"
)

// UserToResponse projects a user with whatever associations are loaded.
// Null columns are omitted from the response.
func UserToResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Phone:      user.Phone,
		Username:   user.Username,
		Role:       RoleToResponse(user.Role),
		Permission: PermissionToResponse(user.Permission),
		CreatedAt:  user.CreatedAt,
	}
}

// UserToRowResponse is the data table projection: null strings become "".
func UserToRowResponse(user *model.User) *dto.UserResponse {
	response := UserToResponse(user)
	response.FirstName = orEmpty(user.FirstName)
	response.LastName = orEmpty(user.LastName)
	response.Email = orEmpty(user.Email)
	response.Phone = orEmpty(user.Phone)
	response.Username = orEmpty(user.Username)
	if response.Permission != nil {
		response.Permission.Name = orEmpty(user.Permission.Name)
	}
	return response
}

func RoleToResponse(role *model.Role) *dto.RoleResponse {
	if role == nil {
		return nil
	}
	return &dto.RoleResponse{
		ID:   role.ID,
		Name: *orEmpty(role.Name),
	}
}

func PermissionToResponse(permission *model.Permission) *dto.PermissionResponse {
	if permission == nil {
		return nil
	}
	return &dto.PermissionResponse{
		ID:          permission.ID,
		Name:        permission.Name,
		IsReadable:  permission.IsReadable,
		IsWritable:  permission.IsWritable,
		IsDeletable: permission.IsDeletable,
	}
}

func orEmpty(value *string) *string {
	if value == nil {
		empty := ""
		return &empty
	}
	return value
}
