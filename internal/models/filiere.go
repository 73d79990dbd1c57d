package models

import "time"

// Filiere is an academic program owned by exactly one departement.
type Filiere struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Nom           string      `gorm:"size:255;not null" json:"nom"`
	Description   string      `gorm:"type:text" json:"description"`
	DepartementID uint        `gorm:"not null;index" json:"departement_id"`
	Departement   Departement `json:"departement,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Modules       []Module    `json:"modules,omitempty"`
	Users         []User      `json:"users,omitempty"`
}
