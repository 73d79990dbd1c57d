package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// UserCreateRequest captures the payload for creating a user account.
type UserCreateRequest struct {
	Nom           string `json:"nom" validate:"required,min=1,max=255"`
	Prenom        string `json:"prenom" validate:"required,min=1,max=255"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Actif         *bool  `json:"actif"`
	DepartementID *uint  `json:"departement_id" validate:"omitempty,gt=0"`
	FiliereID     *uint  `json:"filiere_id" validate:"omitempty,gt=0"`
}

// UserUpdateRequest captures partial update payloads for users.
type UserUpdateRequest struct {
	Nom           *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Prenom        *string `json:"prenom" validate:"omitempty,min=1,max=255"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Password      *string `json:"password" validate:"omitempty,min=6"`
	DepartementID *uint   `json:"departement_id" validate:"omitempty,gt=0"`
	FiliereID     *uint   `json:"filiere_id" validate:"omitempty,gt=0"`
}

// RoleSummary is the compact role shape embedded in user payloads.
type RoleSummary struct {
	ID    uint   `json:"id"`
	Nom   string `json:"nom"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// UserResponse serializes a user account for admin endpoints.
type UserResponse struct {
	ID            uint          `json:"id"`
	Nom           string        `json:"nom"`
	Prenom        string        `json:"prenom"`
	Email         string        `json:"email"`
	Actif         bool          `json:"actif"`
	DepartementID *uint         `json:"departement_id"`
	FiliereID     *uint         `json:"filiere_id"`
	Roles         []RoleSummary `json:"roles,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// UserListResponse wraps a paginated user response.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewUserResponse builds the response shape from a model.
func NewUserResponse(u models.User) UserResponse {
	roles := make([]RoleSummary, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, RoleSummary{
			ID:    role.ID,
			Nom:   role.Nom,
			Type:  string(role.Type),
			Label: role.Type.Label(),
		})
	}

	return UserResponse{
		ID:            u.ID,
		Nom:           u.Nom,
		Prenom:        u.Prenom,
		Email:         u.Email,
		Actif:         u.Actif,
		DepartementID: u.DepartementID,
		FiliereID:     u.FiliereID,
		Roles:         roles,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
