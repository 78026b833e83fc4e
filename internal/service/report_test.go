package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestReportService(t *testing.T) (*reportService, *mocks.MockReportRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockReportRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewReportService(repoMock, observability.NewMetricsForTesting(), logger)
	return svc.(*reportService), repoMock
}

func TestGenerateConsolidated_CountsCityWide(t *testing.T) {
	svc, repoMock := newTestReportService(t)
	ctx := context.Background()

	// City-wide counting is signalled by the empty region filter.
	repoMock.EXPECT().CountIncidents(ctx, models.KindFlood, "2025-06", "").Return(7, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindLandslide, "2025-06", "").Return(3, nil)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	report, err := svc.GenerateConsolidated(ctx, "2025-06")
	require.NoError(t, err)
	assert.Equal(t, models.ReportRegionConsolidated, report.Region)
	assert.Equal(t, 7, report.TotalFloods)
	assert.Equal(t, 3, report.TotalLandslides)
	assert.Equal(t, 10, report.TotalIncidents)
}

func TestGenerateForRegion_CountsSingleNeighborhood(t *testing.T) {
	svc, repoMock := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().CountIncidents(ctx, models.KindFlood, "2025-06", "Centro").Return(2, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindLandslide, "2025-06", "Centro").Return(0, nil)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	report, err := svc.GenerateForRegion(ctx, "2025-06", "Centro")
	require.NoError(t, err)
	assert.Equal(t, "Centro", report.Region)
	assert.Equal(t, 2, report.TotalIncidents)
}

func TestGenerateForRegion_BlankRegionRejected(t *testing.T) {
	svc, _ := newTestReportService(t)

	_, err := svc.GenerateForRegion(context.Background(), "2025-06", "   ")
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestGenerateReport_InvalidPeriodRejected(t *testing.T) {
	svc, _ := newTestReportService(t)

	for _, period := range []string{"2025", "06-2025", "2025-13", "junho"} {
		_, err := svc.GenerateConsolidated(context.Background(), period)
		assert.ErrorIs(t, err, e.ErrInvalidInput, "period %q", period)
	}
}

func TestGeneratePerNeighborhood(t *testing.T) {
	svc, repoMock := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().DistinctNeighborhoods(ctx).Return([]string{"Centro", "Vila Nova"}, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindFlood, "2025-06", "Centro").Return(1, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindLandslide, "2025-06", "Centro").Return(0, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindFlood, "2025-06", "Vila Nova").Return(0, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindLandslide, "2025-06", "Vila Nova").Return(2, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindFlood, "2025-06", "").Return(1, nil)
	repoMock.EXPECT().CountIncidents(ctx, models.KindLandslide, "2025-06", "").Return(2, nil)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(3)

	reports, err := svc.GeneratePerNeighborhood(ctx, "2025-06")
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "Centro", reports[0].Region)
	assert.Equal(t, "Vila Nova", reports[1].Region)
	assert.Equal(t, 2, reports[1].TotalIncidents)
	assert.Equal(t, models.ReportRegionConsolidated, reports[2].Region)
	assert.Equal(t, 3, reports[2].TotalIncidents)
}
