package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// ModuleCreateRequest captures the payload for creating a module.
type ModuleCreateRequest struct {
	Nom         string `json:"nom" validate:"required,min=1,max=255"`
	Code        string `json:"code" validate:"required,min=1,max=64"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Credits     *int   `json:"credits" validate:"omitempty,gt=0"`
	Heures      *int   `json:"heures" validate:"omitempty,gt=0"`
	FiliereID   uint   `json:"filiere_id" validate:"required,gt=0"`
}

// ModuleUpdateRequest captures partial update payloads for modules.
type ModuleUpdateRequest struct {
	Nom         *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Code        *string `json:"code" validate:"omitempty,min=1,max=64"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Credits     *int    `json:"credits" validate:"omitempty,gt=0"`
	Heures      *int    `json:"heures" validate:"omitempty,gt=0"`
	FiliereID   *uint   `json:"filiere_id" validate:"omitempty,gt=0"`
}

// ModuleResponse serializes a module with its filière and eligible teachers.
type ModuleResponse struct {
	ID          uint              `json:"id"`
	Nom         string            `json:"nom"`
	Code        string            `json:"code"`
	Description string            `json:"description"`
	Credits     *int              `json:"credits"`
	Heures      *int              `json:"heures"`
	FiliereID   uint              `json:"filiere_id"`
	FiliereNom  string            `json:"filiere_nom,omitempty"`
	Enseignants []TeacherSummary  `json:"enseignants,omitempty"`
	SeanceCount int64             `json:"seance_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ModuleListResponse wraps a paginated module response.
type ModuleListResponse struct {
	Items      []ModuleResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// TeacherSummary is the compact teacher shape embedded in module and séance payloads.
type TeacherSummary struct {
	ID            uint   `json:"id"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	Email         string `json:"email"`
	FiliereID     *uint  `json:"filiere_id,omitempty"`
	DepartementID *uint  `json:"departement_id,omitempty"`
}

// NewTeacherSummary condenses a user into the teacher shape.
func NewTeacherSummary(u models.User) TeacherSummary {
	return TeacherSummary{
		ID:            u.ID,
		Nom:           u.Nom,
		Prenom:        u.Prenom,
		Email:         u.Email,
		FiliereID:     u.FiliereID,
		DepartementID: u.DepartementID,
	}
}

// NewModuleResponse builds the response shape from a model and its séance count.
func NewModuleResponse(m models.Module, seances int64) ModuleResponse {
	teachers := make([]TeacherSummary, 0, len(m.Enseignants))
	for _, enseignant := range m.Enseignants {
		teachers = append(teachers, NewTeacherSummary(enseignant))
	}

	return ModuleResponse{
		ID:          m.ID,
		Nom:         m.Nom,
		Code:        m.Code,
		Description: m.Description,
		Credits:     m.Credits,
		Heures:      m.Heures,
		FiliereID:   m.FiliereID,
		FiliereNom:  m.Filiere.Nom,
		Enseignants: teachers,
		SeanceCount: seances,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
