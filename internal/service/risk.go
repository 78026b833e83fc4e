package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// RiskService recomputes and serves per-address risk classifications.
type RiskService interface {
	RiskAggregator
	RecomputeAll(ctx context.Context) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RiskRecord, error)
	GetByAddress(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error)
	ListAll(ctx context.Context) ([]*models.RiskRecord, error)
	ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.RiskRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type riskService struct {
	repo       RiskRepository
	floods     IncidentRepository
	landslides IncidentRepository
	metrics    *observability.Metrics
	logger     *logrus.Logger
}

func NewRiskService(repo RiskRepository, floods, landslides IncidentRepository, metrics *observability.Metrics, logger *logrus.Logger) RiskService {
	return &riskService{
		repo:       repo,
		floods:     floods,
		landslides: landslides,
		metrics:    metrics,
		logger:     logger,
	}
}

// Recompute counts the active incidents registered for the address, maps the
// total onto a risk level and upserts the address's risk record. The cache
// entry for the address is invalidated so the next read sees the new level.
func (s *riskService) Recompute(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error) {
	floods, err := s.floods.CountActiveByAddress(ctx, addressID)
	if err != nil {
		s.metrics.RiskRecomputeErrors.Inc()
		return nil, e.Wrap("service.risk.Recompute: count floods", err)
	}
	landslides, err := s.landslides.CountActiveByAddress(ctx, addressID)
	if err != nil {
		s.metrics.RiskRecomputeErrors.Inc()
		return nil, e.Wrap("service.risk.Recompute: count landslides", err)
	}

	total := floods + landslides
	level := models.ClassifyRisk(total)

	record, err := s.repo.GetByAddress(ctx, addressID)
	switch {
	case err == nil:
		record.Level = level
		record.TotalIncidents = total
		if err := s.repo.Update(ctx, record); err != nil {
			s.metrics.RiskRecomputeErrors.Inc()
			return nil, e.Wrap("service.risk.Recompute: update record", err)
		}
	case errors.Is(err, e.ErrNotFound):
		record = &models.RiskRecord{
			AddressID:      addressID,
			Level:          level,
			TotalIncidents: total,
		}
		if err := s.repo.Insert(ctx, record); err != nil {
			s.metrics.RiskRecomputeErrors.Inc()
			return nil, e.Wrap("service.risk.Recompute: insert record", err)
		}
	default:
		s.metrics.RiskRecomputeErrors.Inc()
		return nil, e.Wrap("service.risk.Recompute: load record", err)
	}

	if err := s.repo.InvalidateCache(ctx, addressID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "risk",
			"address_id": addressID,
		}).WithError(err).Warn("failed to invalidate risk cache")
	}

	s.metrics.RiskRecomputes.Inc()
	s.logger.WithFields(logrus.Fields{
		"service":         "risk",
		"address_id":      addressID,
		"level":           record.Level,
		"total_incidents": record.TotalIncidents,
	}).Info("risk recomputed")

	return record, nil
}

// RecomputeAll recomputes the risk of every address that appears in either
// incident log. Addresses are processed one by one; a failure aborts the run
// and leaves the already recomputed records in place.
func (s *riskService) RecomputeAll(ctx context.Context) error {
	floodAddrs, err := s.floods.DistinctAddressIDs(ctx)
	if err != nil {
		return e.Wrap("service.risk.RecomputeAll: list flood addresses", err)
	}
	slideAddrs, err := s.landslides.DistinctAddressIDs(ctx)
	if err != nil {
		return e.Wrap("service.risk.RecomputeAll: list landslide addresses", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(floodAddrs)+len(slideAddrs))
	for _, id := range append(floodAddrs, slideAddrs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := s.Recompute(ctx, id); err != nil {
			return e.Wrap("service.risk.RecomputeAll", err)
		}
	}
	return nil
}

func (s *riskService) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByAddress serves the current risk record for an address, preferring the
// cache and falling back to storage on a miss.
func (s *riskService) GetByAddress(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error) {
	cached, err := s.repo.GetCached(ctx, addressID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "risk",
			"address_id": addressID,
		}).WithError(err).Warn("risk cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	record, err := s.repo.GetByAddress(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetCache(ctx, record); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "risk",
			"address_id": addressID,
		}).WithError(err).Warn("risk cache write failed")
	}
	return record, nil
}

func (s *riskService) ListAll(ctx context.Context) ([]*models.RiskRecord, error) {
	return s.repo.ListAll(ctx)
}

func (s *riskService) ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.RiskRecord, error) {
	return s.repo.ListByLevel(ctx, level)
}

func (s *riskService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.repo.InvalidateCache(ctx, record.AddressID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":    "risk",
			"address_id": record.AddressID,
		}).WithError(err).Warn("failed to invalidate risk cache")
	}
	return nil
}
