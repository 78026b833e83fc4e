package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentKind distinguishes the two incident logs. They are structurally
// identical but kept in separate tables because verification and risk
// aggregation key on which kind an event is.
type IncidentKind string

const (
	KindFlood     IncidentKind = "flood"
	KindLandslide IncidentKind = "landslide"
)

// Incident is a reported flood or landslide tied to an address and a
// reporting user.
type Incident struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	AddressID   uuid.UUID  `json:"address_id"`
	Description string     `json:"description,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
