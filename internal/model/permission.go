package model

import "fmt"

type Permission struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        *string `json:"name,omitempty"`
	IsReadable  bool    `gorm:"not null;default:false" json:"isReadable"`
	IsWritable  bool    `gorm:"not null;default:false" json:"isWritable"`
	IsDeletable bool    `gorm:"not null;default:false" json:"isDeletable"`
	Users       []User  `gorm:"foreignKey:PermissionID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// PermissionNameFor is the name given to a permission minted for a single user.
func PermissionNameFor(username string) string {
	return fmt.Sprintf("Permission_%s", username)
}
