package v1

import (
	"time"

	"github.com/google/uuid"
)

// AddressRequest carries the address fields shared by creation and update.
// @Description Address payload
type AddressRequest struct {
	Logradouro       string `json:"logradouro" validate:"required,min=2,max=255"`
	Bairro           string `json:"bairro" validate:"required,min=2,max=255"`
	CEP              string `json:"cep" validate:"required,min=8,max=9"`
	SoilType         string `json:"tipoSolo" validate:"required"`
	StreetElevation  string `json:"nivelRua" validate:"required"`
	ConstructionType string `json:"tipoConstrucao" validate:"required"`
	NearWaterway     bool   `json:"proximoCorrego"`
}

// AddressResponse is the address representation returned by the API.
type AddressResponse struct {
	ID               uuid.UUID `json:"id"`
	Logradouro       string    `json:"logradouro"`
	Bairro           string    `json:"bairro"`
	CEP              string    `json:"cep"`
	SoilType         string    `json:"tipoSolo"`
	StreetElevation  string    `json:"nivelRua"`
	ConstructionType string    `json:"tipoConstrucao"`
	NeighborhoodRisk string    `json:"riscoBairro"`
	NearWaterway     bool      `json:"proximoCorrego"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RegisterRequest creates a user together with their address.
// @Description User registration payload
type RegisterRequest struct {
	Name     string         `json:"name" validate:"required,min=2,max=255"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=8,max=72"`
	Phone    string         `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address  AddressRequest `json:"address" validate:"required"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse returns an issued access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the user representation returned by the API.
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	AddressID      uuid.UUID `json:"address_id"`
	IsCivilDefense bool      `json:"is_civil_defense"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateIncidentRequest registers a flood or landslide occurrence.
// @Description Incident registration payload
type CreateIncidentRequest struct {
	AddressID   uuid.UUID  `json:"address_id" validate:"required"`
	Description string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// UpdateIncidentRequest edits an incident's description or occurrence time.
type UpdateIncidentRequest struct {
	Description string     `json:"description,omitempty" validate:"omitempty,max=1000"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// IncidentResponse is the incident representation returned by the API.
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AddressID   uuid.UUID `json:"address_id"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RiskResponse is the derived risk record for an address.
type RiskResponse struct {
	ID             uuid.UUID `json:"id"`
	AddressID      uuid.UUID `json:"address_id"`
	Level          string    `json:"nivelRisco"`
	TotalIncidents int       `json:"total_incidents"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateVerificationRequest records a vote on exactly one incident.
// @Description Verification payload, referencing a flood or a landslide
type CreateVerificationRequest struct {
	FloodID     *uuid.UUID `json:"flood_id,omitempty"`
	LandslideID *uuid.UUID `json:"landslide_id,omitempty"`
	Confirmed   bool       `json:"confirmed"`
}

// UpdateVerificationRequest flips a previous vote.
type UpdateVerificationRequest struct {
	Confirmed bool `json:"confirmed"`
}

// VerificationResponse is the verification representation returned by the API.
type VerificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FloodID     *uuid.UUID `json:"flood_id,omitempty"`
	LandslideID *uuid.UUID `json:"landslide_id,omitempty"`
	Confirmed   bool       `json:"confirmed"`
	CreatedAt   time.Time  `json:"created_at"`
}

// VerificationStatsResponse aggregates the votes cast on one incident.
type VerificationStatsResponse struct {
	Total            int     `json:"total"`
	Confirmed        int     `json:"confirmed"`
	Denied           int     `json:"denied"`
	ConfirmedPercent float64 `json:"confirmed_percent"`
}

// CreateAlertRequest publishes a civil defense alert.
// @Description Alert publication payload
type CreateAlertRequest struct {
	Title                 string     `json:"title" validate:"required,max=200"`
	Description           string     `json:"description,omitempty"`
	Level                 string     `json:"nivelRisco,omitempty"`
	AffectedNeighborhoods []string   `json:"bairrosAfetados,omitempty"`
	StartsAt              *time.Time `json:"starts_at,omitempty"`
}

// UpdateAlertRequest edits a published alert without re-notifying residents.
type UpdateAlertRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Level       string `json:"nivelRisco,omitempty"`
}

// AlertResponse is the alert representation returned by the API.
type AlertResponse struct {
	ID                    uuid.UUID `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	Level                 string    `json:"nivelRisco"`
	AffectedNeighborhoods []string  `json:"bairrosAfetados,omitempty"`
	StartsAt              time.Time `json:"starts_at"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
}

// NotificationResponse is a single inbox entry.
type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateReportRequest asks for a monthly report. An empty region produces
// the consolidated city-wide report.
type GenerateReportRequest struct {
	Period string `json:"period" validate:"required,len=7"`
	Region string `json:"region,omitempty" validate:"omitempty,max=255"`
}

// ReportResponse is the report representation returned by the API.
type ReportResponse struct {
	ID              uuid.UUID `json:"id"`
	Period          string    `json:"period"`
	Region          string    `json:"region"`
	TotalFloods     int       `json:"total_floods"`
	TotalLandslides int       `json:"total_landslides"`
	TotalIncidents  int       `json:"total_incidents"`
	CreatedAt       time.Time `json:"created_at"`
}
