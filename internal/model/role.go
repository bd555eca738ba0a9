package model

type Role struct {
	ID    uint    `gorm:"primaryKey" json:"id"`
	Name  *string `json:"name,omitempty"`
	Users []User  `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}
