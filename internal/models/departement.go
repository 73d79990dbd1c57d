package models

import "time"

// Departement groups filières and directly attached staff members.
type Departement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"size:255;uniqueIndex;not null" json:"nom"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Filieres    []Filiere `json:"filieres,omitempty"`
	Users       []User    `json:"users,omitempty"`
}
