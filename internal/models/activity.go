package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures one auditable event. Rows are append-only: the portal
// never updates or deletes them.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	User        *User             `json:"user,omitempty"`
	Action      ActionType        `gorm:"size:32;not null" json:"action"`
	EntityType  EntityType        `gorm:"size:32;not null" json:"entity_type"`
	EntityID    *uint             `json:"entity_id"`
	EntityName  string            `gorm:"size:255" json:"entity_name"`
	Description string            `gorm:"type:text;not null" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	IPAddress   string            `gorm:"size:64" json:"ip_address"`
	UserAgent   string            `gorm:"size:512" json:"user_agent"`
	CreatedAt   time.Time         `json:"created_at"`
}
