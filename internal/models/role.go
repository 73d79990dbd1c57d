package models

import "time"

// Role is a named permission grouping of one of the closed TypeRole kinds.
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"size:255;not null" json:"nom"`
	Type        TypeRole  `gorm:"size:64;not null" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Users       []User    `gorm:"many2many:user_roles" json:"users,omitempty"`
}
