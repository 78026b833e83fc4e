package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// AddressResolver is the slice of the address store the alert broadcaster
// depends on. It is injected explicitly rather than looked up from ambient
// state.
type AddressResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	FindResidentsByNeighborhood(ctx context.Context, bairro string) ([]uuid.UUID, error)
}

// NotificationSink receives the notifications synthesized during alert
// fan-out.
type NotificationSink interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// RiskAggregator recomputes the derived risk record for an address. The
// incident service calls it synchronously after a qualifying insert.
type RiskAggregator interface {
	Recompute(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error)
}

// AddressRepository defines the persistence contract for addresses.
type AddressRepository interface {
	AddressResolver
	Create(ctx context.Context, address *models.Address) error
	List(ctx context.Context) ([]*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the persistence contract for users. CreateWithAddress
// inserts the user's address and the user in one transaction.
type UserRepository interface {
	CreateWithAddress(ctx context.Context, user *models.User, address *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// IncidentRepository defines the persistence contract shared by the flood and
// landslide logs. Each kind has its own table and its own repository instance.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListAll(ctx context.Context) ([]*models.Incident, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountActiveByAddress(ctx context.Context, addressID uuid.UUID) (int, error)
	DistinctAddressIDs(ctx context.Context) ([]uuid.UUID, error)
}

// RiskRepository defines the persistence contract for derived risk records,
// including the Redis cache of the per-address record.
type RiskRepository interface {
	Insert(ctx context.Context, record *models.RiskRecord) error
	Update(ctx context.Context, record *models.RiskRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RiskRecord, error)
	GetByAddress(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error)
	ListAll(ctx context.Context) ([]*models.RiskRecord, error)
	ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.RiskRecord, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	GetCached(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error)
	SetCache(ctx context.Context, record *models.RiskRecord) error
	InvalidateCache(ctx context.Context, addressID uuid.UUID) error
}

// VerificationRepository defines the persistence contract for the
// verification ledger.
type VerificationRepository interface {
	Create(ctx context.Context, verification *models.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Verification, error)
	ListByFlood(ctx context.Context, floodID uuid.UUID) ([]*models.Verification, error)
	ListByLandslide(ctx context.Context, landslideID uuid.UUID) ([]*models.Verification, error)
	HasVerified(ctx context.Context, userID uuid.UUID, floodID, landslideID *uuid.UUID) (bool, error)
	StatsByFlood(ctx context.Context, floodID uuid.UUID) (*models.VerificationStats, error)
	StatsByLandslide(ctx context.Context, landslideID uuid.UUID) (*models.VerificationStats, error)
	Update(ctx context.Context, verification *models.Verification) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// AlertRepository defines the persistence contract for civil-defense alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAll(ctx context.Context) ([]*models.Alert, error)
	ListActive(ctx context.Context) ([]*models.Alert, error)
	ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines the persistence contract for user inboxes.
type NotificationRepository interface {
	NotificationSink
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// ReportRepository defines the persistence contract for statistical reports
// plus the aggregation counts they are built from.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListAll(ctx context.Context) ([]*models.Report, error)
	ListByPeriod(ctx context.Context, period string) ([]*models.Report, error)
	ListByRegion(ctx context.Context, region string) ([]*models.Report, error)
	CountIncidents(ctx context.Context, kind models.IncidentKind, period, region string) (int, error)
	DistinctNeighborhoods(ctx context.Context) ([]string, error)
}
