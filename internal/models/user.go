package models

import "time"

// User is a portal account: staff, teacher or administrator depending on roles.
type User struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Nom           string       `gorm:"size:255;not null" json:"nom"`
	Prenom        string       `gorm:"size:255;not null" json:"prenom"`
	Email         string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string       `gorm:"size:255;not null" json:"-"`
	Actif         bool         `gorm:"not null;default:true" json:"actif"`
	DepartementID *uint        `gorm:"index" json:"departement_id"`
	Departement   *Departement `json:"departement,omitempty"`
	FiliereID     *uint        `gorm:"index" json:"filiere_id"`
	Filiere       *Filiere     `json:"filiere,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Roles   []Role   `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Modules []Module `gorm:"many2many:module_enseignants" json:"modules,omitempty"`
	Seances []Seance `gorm:"foreignKey:EnseignantID" json:"seances,omitempty"`
}

// FullName returns "Prénom Nom" the way the portal displays actors.
func (u User) FullName() string {
	return u.Prenom + " " + u.Nom
}

// HasRoleType reports whether the user holds at least one role of the given type.
// Roles must be preloaded.
func (u User) HasRoleType(t TypeRole) bool {
	for _, role := range u.Roles {
		if role.Type == t {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds an administrative role and is active.
func (u User) IsAdmin() bool {
	if !u.Actif {
		return false
	}
	for _, role := range u.Roles {
		if role.Type.IsAdminRole() {
			return true
		}
	}
	return false
}
