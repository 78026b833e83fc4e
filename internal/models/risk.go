package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskRecord is the derived per-address risk classification. At most one
// non-deleted record exists per address; it is only ever written by the risk
// aggregator, never by a user action.
type RiskRecord struct {
	ID             uuid.UUID  `json:"id"`
	AddressID      uuid.UUID  `json:"address_id"`
	Level          RiskLevel  `json:"level"`
	TotalIncidents int        `json:"total_incidents"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}
