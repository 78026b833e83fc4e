package models

import (
	"time"

	"github.com/google/uuid"
)

// Address holds the physical attributes of a location. Bairro is the
// case-insensitive key used for alert fan-out.
type Address struct {
	ID               uuid.UUID        `json:"id"`
	Logradouro       string           `json:"logradouro"`
	Bairro           string           `json:"bairro"`
	CEP              string           `json:"cep"`
	SoilType         SoilType         `json:"soil_type"`
	StreetElevation  StreetElevation  `json:"street_elevation"`
	ConstructionType ConstructionType `json:"construction_type"`
	NeighborhoodRisk RiskLevel        `json:"neighborhood_risk"`
	NearWaterway     bool             `json:"near_waterway"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        *time.Time       `json:"deleted_at,omitempty"`
}
