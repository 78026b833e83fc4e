package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification is a community confirmation or denial of a reported incident.
// Exactly one of FloodID and LandslideID is set.
type Verification struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FloodID     *uuid.UUID `json:"flood_id,omitempty"`
	LandslideID *uuid.UUID `json:"landslide_id,omitempty"`
	Confirmed   bool       `json:"confirmed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// VerificationStats aggregates confirmations for a single incident.
// ConfirmedPercent is 0 when no verifications exist.
type VerificationStats struct {
	Total            int     `json:"total"`
	Confirmed        int     `json:"confirmed"`
	Denied           int     `json:"denied"`
	ConfirmedPercent float64 `json:"confirmed_percent"`
}
