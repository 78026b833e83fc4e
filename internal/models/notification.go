package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one row in a user's inbox. Priority mirrors the level of
// the alert that generated it. Delivery is poll-based; there is no push.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	Priority  RiskLevel  `json:"priority"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
