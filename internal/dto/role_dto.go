package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// RoleCreateRequest captures the payload for creating a role.
type RoleCreateRequest struct {
	Nom         string `json:"nom" validate:"required,min=1,max=255"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// RoleUpdateRequest captures partial update payloads for roles.
type RoleUpdateRequest struct {
	Nom         *string `json:"nom" validate:"omitempty,min=1,max=255"`
	Type        *string `json:"type"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// RoleResponse serializes a role with its assigned-user count.
type RoleResponse struct {
	ID          uint      `json:"id"`
	Nom         string    `json:"nom"`
	Type        string    `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	UserCount   int64     `json:"user_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleListResponse wraps a paginated role response.
type RoleListResponse struct {
	Items      []RoleResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// NewRoleResponse builds the response shape from a model and its user count.
func NewRoleResponse(r models.Role, users int64) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Nom:         r.Nom,
		Type:        string(r.Type),
		Label:       r.Type.Label(),
		Description: r.Description,
		UserCount:   users,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
