package models

import "time"

// Seance is one scheduled teaching session bound to a module, a teacher,
// a calendar day and a [HeureDebut, HeureFin) time window on that day.
type Seance struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Titre        string     `gorm:"size:255;not null" json:"titre"`
	Contenu      string     `gorm:"type:text" json:"contenu"`
	DateSeance   time.Time  `gorm:"not null;index" json:"date_seance"`
	HeureDebut   time.Time  `gorm:"not null" json:"heure_debut"`
	HeureFin     time.Time  `gorm:"not null" json:"heure_fin"`
	Salle        string     `gorm:"size:64" json:"salle"`
	Type         TypeSeance `gorm:"size:32;not null;default:COURS" json:"type"`
	Complement   string     `gorm:"type:text" json:"complement"`
	ModuleID     uint       `gorm:"not null;index" json:"module_id"`
	Module       Module     `json:"module,omitempty"`
	EnseignantID uint       `gorm:"not null;index" json:"enseignant_id"`
	Enseignant   User       `gorm:"foreignKey:EnseignantID" json:"enseignant,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Overlaps reports whether two half-open windows [s.HeureDebut, s.HeureFin)
// and [debut, fin) intersect. Touching endpoints do not count as overlap.
func (s Seance) Overlaps(debut, fin time.Time) bool {
	return s.HeureDebut.Before(fin) && debut.Before(s.HeureFin)
}
