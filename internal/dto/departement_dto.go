package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// DepartementCreateRequest captures the payload for creating a departement.
type DepartementCreateRequest struct {
	Nom         string `json:"nom" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// DepartementUpdateRequest captures partial update payloads for departements.
type DepartementUpdateRequest struct {
	Nom         *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// DepartementResponse serializes a departement with its dependent counts.
type DepartementResponse struct {
	ID           uint      `json:"id"`
	Nom          string    `json:"nom"`
	Description  string    `json:"description"`
	FiliereCount int64     `json:"filiere_count"`
	UserCount    int64     `json:"user_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DepartementListResponse wraps a paginated departement response.
type DepartementListResponse struct {
	Items      []DepartementResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// DepartementStatsResponse aggregates the counts shown on a departement card.
type DepartementStatsResponse struct {
	ID                  uint   `json:"id"`
	Nom                 string `json:"nom"`
	FiliereCount        int64  `json:"filiere_count"`
	UserCount           int64  `json:"user_count"`
	TotalModules        int64  `json:"total_modules"`
	TotalUsersInFiliere int64  `json:"total_users_in_filieres"`
}

// NewDepartementResponse builds the response shape from a model and its counts.
func NewDepartementResponse(d models.Departement, filieres, users int64) DepartementResponse {
	return DepartementResponse{
		ID:           d.ID,
		Nom:          d.Nom,
		Description:  d.Description,
		FiliereCount: filieres,
		UserCount:    users,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
