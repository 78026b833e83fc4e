package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// AddressService manages the registry of monitored addresses.
type AddressService interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListAll(ctx context.Context) ([]*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type addressService struct {
	repo   AddressRepository
	logger *logrus.Logger
}

func NewAddressService(repo AddressRepository, logger *logrus.Logger) AddressService {
	return &addressService{repo: repo, logger: logger}
}

func (s *addressService) Create(ctx context.Context, address *models.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	if address.NeighborhoodRisk == "" {
		address.NeighborhoodRisk = models.RiskLow
	}
	if err := s.repo.Create(ctx, address); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"service":    "address",
		"address_id": address.ID,
		"bairro":     address.Bairro,
	}).Info("address registered")
	return nil
}

func (s *addressService) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *addressService) ListAll(ctx context.Context) ([]*models.Address, error) {
	return s.repo.List(ctx)
}

func (s *addressService) Update(ctx context.Context, address *models.Address) error {
	return s.repo.Update(ctx, address)
}

func (s *addressService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
