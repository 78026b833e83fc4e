package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// VerificationService records community confirmations and denials of
// reported incidents.
type VerificationService interface {
	Create(ctx context.Context, verification *models.Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*models.Verification, error)
	ListByFlood(ctx context.Context, floodID uuid.UUID) ([]*models.Verification, error)
	ListByLandslide(ctx context.Context, landslideID uuid.UUID) ([]*models.Verification, error)
	StatsByFlood(ctx context.Context, floodID uuid.UUID) (*models.VerificationStats, error)
	StatsByLandslide(ctx context.Context, landslideID uuid.UUID) (*models.VerificationStats, error)
	Update(ctx context.Context, userID uuid.UUID, verification *models.Verification) error
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type verificationService struct {
	repo       VerificationRepository
	floods     IncidentRepository
	landslides IncidentRepository
	logger     *logrus.Logger
}

func NewVerificationService(repo VerificationRepository, floods, landslides IncidentRepository, logger *logrus.Logger) VerificationService {
	return &verificationService{
		repo:       repo,
		floods:     floods,
		landslides: landslides,
		logger:     logger,
	}
}

// Create records a user's vote on a single incident. A verification must
// point to exactly one of a flood or a landslide, and each user gets one
// vote per incident.
func (s *verificationService) Create(ctx context.Context, verification *models.Verification) error {
	if (verification.FloodID == nil) == (verification.LandslideID == nil) {
		return e.Wrap("service.verification.Create: exactly one incident reference required", e.ErrInvalidInput)
	}

	if verification.FloodID != nil {
		if _, err := s.floods.GetByID(ctx, *verification.FloodID); err != nil {
			return e.Wrap("service.verification.Create: resolve flood", err)
		}
	} else {
		if _, err := s.landslides.GetByID(ctx, *verification.LandslideID); err != nil {
			return e.Wrap("service.verification.Create: resolve landslide", err)
		}
	}

	voted, err := s.repo.HasVerified(ctx, verification.UserID, verification.FloodID, verification.LandslideID)
	if err != nil {
		return e.Wrap("service.verification.Create: check previous vote", err)
	}
	if voted {
		return e.Wrap("service.verification.Create: incident already verified by user", e.ErrConflict)
	}

	if verification.ID == uuid.Nil {
		verification.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, verification); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"service":         "verification",
		"verification_id": verification.ID,
		"user_id":         verification.UserID,
		"confirmed":       verification.Confirmed,
	}).Info("verification recorded")
	return nil
}

func (s *verificationService) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *verificationService) ListMine(ctx context.Context, userID uuid.UUID) ([]*models.Verification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *verificationService) ListByFlood(ctx context.Context, floodID uuid.UUID) ([]*models.Verification, error) {
	return s.repo.ListByFlood(ctx, floodID)
}

func (s *verificationService) ListByLandslide(ctx context.Context, landslideID uuid.UUID) ([]*models.Verification, error) {
	return s.repo.ListByLandslide(ctx, landslideID)
}

func (s *verificationService) StatsByFlood(ctx context.Context, floodID uuid.UUID) (*models.VerificationStats, error) {
	stats, err := s.repo.StatsByFlood(ctx, floodID)
	if err != nil {
		return nil, err
	}
	return withConfirmedPercent(stats), nil
}

func (s *verificationService) StatsByLandslide(ctx context.Context, landslideID uuid.UUID) (*models.VerificationStats, error) {
	stats, err := s.repo.StatsByLandslide(ctx, landslideID)
	if err != nil {
		return nil, err
	}
	return withConfirmedPercent(stats), nil
}

// withConfirmedPercent derives the confirmation share from the raw counts.
// An incident nobody has verified reports 0 percent, not a division error.
func withConfirmedPercent(stats *models.VerificationStats) *models.VerificationStats {
	if stats.Total > 0 {
		stats.ConfirmedPercent = float64(stats.Confirmed) / float64(stats.Total) * 100
	} else {
		stats.ConfirmedPercent = 0
	}
	return stats
}

// Update flips the confirmed flag of the caller's own verification.
func (s *verificationService) Update(ctx context.Context, userID uuid.UUID, verification *models.Verification) error {
	stored, err := s.repo.GetByID(ctx, verification.ID)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return e.Wrap("service.verification.Update", e.ErrForbidden)
	}

	stored.Confirmed = verification.Confirmed
	if err := s.repo.Update(ctx, stored); err != nil {
		return err
	}
	*verification = *stored
	return nil
}

func (s *verificationService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return e.Wrap("service.verification.Delete", e.ErrForbidden)
	}
	return s.repo.SoftDelete(ctx, id)
}
