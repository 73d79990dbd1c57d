package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// FiliereCreateRequest captures the payload for creating a filière.
type FiliereCreateRequest struct {
	Nom           string `json:"nom" validate:"required,min=1,max=255"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	DepartementID uint   `json:"departement_id" validate:"required,gt=0"`
}

// FiliereUpdateRequest captures partial update payloads for filières.
type FiliereUpdateRequest struct {
	Nom           *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	DepartementID *uint   `json:"departement_id" validate:"omitempty,gt=0"`
}

// FiliereResponse serializes a filière with its owning departement and counts.
type FiliereResponse struct {
	ID              uint      `json:"id"`
	Nom             string    `json:"nom"`
	Description     string    `json:"description"`
	DepartementID   uint      `json:"departement_id"`
	DepartementNom  string    `json:"departement_nom,omitempty"`
	ModuleCount     int64     `json:"module_count"`
	UserCount       int64     `json:"user_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FiliereListResponse wraps a paginated filière response.
type FiliereListResponse struct {
	Items      []FiliereResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewFiliereResponse builds the response shape from a model and its counts.
func NewFiliereResponse(f models.Filiere, modules, users int64) FiliereResponse {
	return FiliereResponse{
		ID:             f.ID,
		Nom:            f.Nom,
		Description:    f.Description,
		DepartementID:  f.DepartementID,
		DepartementNom: f.Departement.Nom,
		ModuleCount:    modules,
		UserCount:      users,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}
