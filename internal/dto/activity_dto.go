package dto

import (
	"time"

	"github.com/benmouhabdel/heec-manager/internal/models"
)

// ActivityListRequest narrows activity log queries.
type ActivityListRequest struct {
	Page       int
	PageSize   int
	UserID     uint
	Action     string
	EntityType string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// ActivityResponse serializes one audit trail entry.
type ActivityResponse struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"user_id"`
	ActorNom    string                 `json:"actor_nom,omitempty"`
	Action      string                 `json:"action"`
	ActionColor string                 `json:"action_color"`
	EntityType  string                 `json:"entity_type"`
	EntityIcon  string                 `json:"entity_icon"`
	EntityID    *uint                  `json:"entity_id"`
	EntityName  string                 `json:"entity_name"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	IPAddress   string                 `json:"ip_address,omitempty"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a paginated activity log response.
type ActivityListResponse struct {
	Items      []ActivityResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewActivityResponse builds the response shape from a model.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	response := ActivityResponse{
		ID:          entry.ID,
		UserID:      entry.UserID,
		Action:      string(entry.Action),
		ActionColor: entry.Action.Color(),
		EntityType:  string(entry.EntityType),
		EntityIcon:  entry.EntityType.IconKey(),
		EntityID:    entry.EntityID,
		EntityName:  entry.EntityName,
		Description: entry.Description,
		Metadata:    entry.Metadata,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		CreatedAt:   entry.CreatedAt,
	}

	if entry.User != nil {
		response.ActorNom = entry.User.FullName()
	}

	return response
}
