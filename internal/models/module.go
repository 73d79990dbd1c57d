package models

import "time"

// Module is a course unit within a filière, taught by one or more eligible teachers.
type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nom         string    `gorm:"size:255;not null" json:"nom"`
	Code        string    `gorm:"size:64;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	Credits     *int      `json:"credits"`
	Heures      *int      `json:"heures"`
	FiliereID   uint      `gorm:"not null;index" json:"filiere_id"`
	Filiere     Filiere   `json:"filiere,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Enseignants is the eligibility set: only these users may be scheduled
	// as the teacher of this module's séances.
	Enseignants []User   `gorm:"many2many:module_enseignants" json:"enseignants,omitempty"`
	Seances     []Seance `json:"seances,omitempty"`
}
