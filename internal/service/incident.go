package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// IncidentService registers flood and landslide occurrences and keeps the
// risk classification of the affected address up to date.
type IncidentService interface {
	Create(ctx context.Context, kind models.IncidentKind, incident *models.Incident) error
	GetByID(ctx context.Context, kind models.IncidentKind, id uuid.UUID) (*models.Incident, error)
	ListAll(ctx context.Context, kind models.IncidentKind) ([]*models.Incident, error)
	ListMine(ctx context.Context, kind models.IncidentKind, userID uuid.UUID) ([]*models.Incident, error)
	Update(ctx context.Context, kind models.IncidentKind, userID uuid.UUID, incident *models.Incident) error
	Delete(ctx context.Context, kind models.IncidentKind, userID uuid.UUID, id uuid.UUID) error
}

type incidentService struct {
	floods     IncidentRepository
	landslides IncidentRepository
	addresses  AddressResolver
	risks      RiskAggregator
	clock      clockwork.Clock
	logger     *logrus.Logger
}

func NewIncidentService(floods, landslides IncidentRepository, addresses AddressResolver, risks RiskAggregator, clock clockwork.Clock, logger *logrus.Logger) IncidentService {
	return &incidentService{
		floods:     floods,
		landslides: landslides,
		addresses:  addresses,
		risks:      risks,
		clock:      clock,
		logger:     logger,
	}
}

func (s *incidentService) repo(kind models.IncidentKind) (IncidentRepository, error) {
	switch kind {
	case models.KindFlood:
		return s.floods, nil
	case models.KindLandslide:
		return s.landslides, nil
	default:
		return nil, e.Wrap(fmt.Sprintf("unknown incident kind %q", kind), e.ErrInvalidInput)
	}
}

// Create registers an incident against an existing address. Registering a
// landslide recomputes the address risk synchronously; flood registrations
// leave the classification to the next landslide or batch recomputation.
func (s *incidentService) Create(ctx context.Context, kind models.IncidentKind, incident *models.Incident) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	if _, err := s.addresses.GetByID(ctx, incident.AddressID); err != nil {
		return e.Wrap("service.incident.Create: resolve address", err)
	}

	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if incident.OccurredAt.IsZero() {
		incident.OccurredAt = s.clock.Now()
	}
	incident.Active = true

	if err := repo.Create(ctx, incident); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"kind":        kind,
		"incident_id": incident.ID,
		"address_id":  incident.AddressID,
	}).Info("incident registered")

	if kind == models.KindLandslide {
		if _, err := s.risks.Recompute(ctx, incident.AddressID); err != nil {
			return e.Wrap("service.incident.Create: recompute risk", err)
		}
	}
	return nil
}

func (s *incidentService) GetByID(ctx context.Context, kind models.IncidentKind, id uuid.UUID) (*models.Incident, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

func (s *incidentService) ListAll(ctx context.Context, kind models.IncidentKind) ([]*models.Incident, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.ListAll(ctx)
}

func (s *incidentService) ListMine(ctx context.Context, kind models.IncidentKind, userID uuid.UUID) ([]*models.Incident, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID)
}

// Update rewrites the description and occurrence time of an incident. Only
// the reporting user may change it.
func (s *incidentService) Update(ctx context.Context, kind models.IncidentKind, userID uuid.UUID, incident *models.Incident) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	stored, err := repo.GetByID(ctx, incident.ID)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return e.Wrap("service.incident.Update", e.ErrForbidden)
	}

	stored.Description = incident.Description
	if !incident.OccurredAt.IsZero() {
		stored.OccurredAt = incident.OccurredAt
	}
	if err := repo.Update(ctx, stored); err != nil {
		return err
	}
	*incident = *stored
	return nil
}

func (s *incidentService) Delete(ctx context.Context, kind models.IncidentKind, userID uuid.UUID, id uuid.UUID) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}

	stored, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return e.Wrap("service.incident.Delete", e.ErrForbidden)
	}
	return repo.SoftDelete(ctx, id)
}
