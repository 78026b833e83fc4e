package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a persisted incident-count aggregation for a period ("YYYY-MM")
// and a region (neighborhood name, or ReportRegionConsolidated for the
// city-wide rollup).
type Report struct {
	ID              uuid.UUID  `json:"id"`
	Period          string     `json:"period"`
	Region          string     `json:"region"`
	TotalFloods     int        `json:"total_floods"`
	TotalLandslides int        `json:"total_landslides"`
	TotalIncidents  int        `json:"total_incidents"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

const ReportRegionConsolidated = "CONSOLIDADO"
