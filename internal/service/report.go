package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// ReportService builds monthly incident statistics, either city-wide or per
// neighborhood.
type ReportService interface {
	GenerateForRegion(ctx context.Context, period, region string) (*models.Report, error)
	GenerateConsolidated(ctx context.Context, period string) (*models.Report, error)
	GeneratePerNeighborhood(ctx context.Context, period string) ([]*models.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	ListAll(ctx context.Context) ([]*models.Report, error)
	ListByPeriod(ctx context.Context, period string) ([]*models.Report, error)
	ListByRegion(ctx context.Context, region string) ([]*models.Report, error)
}

type reportService struct {
	repo    ReportRepository
	metrics *observability.Metrics
	logger  *logrus.Logger
}

func NewReportService(repo ReportRepository, metrics *observability.Metrics, logger *logrus.Logger) ReportService {
	return &reportService{repo: repo, metrics: metrics, logger: logger}
}

func validatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return e.Wrap("period must be in YYYY-MM format", e.ErrInvalidInput)
	}
	return nil
}

// GenerateForRegion counts the month's floods and landslides in a single
// neighborhood and stores the totals as a new report row.
func (s *reportService) GenerateForRegion(ctx context.Context, period, region string) (*models.Report, error) {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil, e.Wrap("region is required", e.ErrInvalidInput)
	}
	return s.generate(ctx, period, region)
}

// GenerateConsolidated counts the month's incidents across the whole city.
func (s *reportService) GenerateConsolidated(ctx context.Context, period string) (*models.Report, error) {
	return s.generate(ctx, period, models.ReportRegionConsolidated)
}

// GeneratePerNeighborhood produces one report per neighborhood known to the
// address registry, for the given month, plus the city-wide consolidated
// report.
func (s *reportService) GeneratePerNeighborhood(ctx context.Context, period string) ([]*models.Report, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	neighborhoods, err := s.repo.DistinctNeighborhoods(ctx)
	if err != nil {
		return nil, e.Wrap("service.report.GeneratePerNeighborhood: list neighborhoods", err)
	}

	reports := make([]*models.Report, 0, len(neighborhoods)+1)
	for _, neighborhood := range neighborhoods {
		report, err := s.generate(ctx, period, neighborhood)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	consolidated, err := s.generate(ctx, period, models.ReportRegionConsolidated)
	if err != nil {
		return nil, err
	}
	return append(reports, consolidated), nil
}

func (s *reportService) generate(ctx context.Context, period, region string) (*models.Report, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	// A consolidated report counts city-wide, signalled to the repository
	// by an empty region filter.
	filter := region
	if region == models.ReportRegionConsolidated {
		filter = ""
	}

	floods, err := s.repo.CountIncidents(ctx, models.KindFlood, period, filter)
	if err != nil {
		return nil, e.Wrap("service.report.generate: count floods", err)
	}
	landslides, err := s.repo.CountIncidents(ctx, models.KindLandslide, period, filter)
	if err != nil {
		return nil, e.Wrap("service.report.generate: count landslides", err)
	}

	report := &models.Report{
		ID:              uuid.New(),
		Period:          period,
		Region:          region,
		TotalFloods:     floods,
		TotalLandslides: landslides,
		TotalIncidents:  floods + landslides,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.metrics.ReportsGenerated.Inc()
	s.logger.WithFields(logrus.Fields{
		"service": "report",
		"period":  period,
		"region":  region,
		"total":   report.TotalIncidents,
	}).Info("report generated")
	return report, nil
}

func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *reportService) ListAll(ctx context.Context) ([]*models.Report, error) {
	return s.repo.ListAll(ctx)
}

func (s *reportService) ListByPeriod(ctx context.Context, period string) ([]*models.Report, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.ListByPeriod(ctx, period)
}

func (s *reportService) ListByRegion(ctx context.Context, region string) ([]*models.Report, error) {
	return s.repo.ListByRegion(ctx, region)
}
