package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a civil-defense broadcast. Each non-blank entry of
// AffectedNeighborhoods triggers notification fan-out to its residents on
// publish.
type Alert struct {
	ID                    uuid.UUID  `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	Level                 RiskLevel  `json:"level"`
	AffectedNeighborhoods []string   `json:"affected_neighborhoods,omitempty"`
	StartsAt              time.Time  `json:"starts_at"`
	Active                bool       `json:"active"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	DeletedAt             *time.Time `json:"deleted_at,omitempty"`
}
