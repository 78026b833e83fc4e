package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestRiskService(t *testing.T) (*riskService, *mocks.MockRiskRepository, *mocks.MockIncidentRepository, *mocks.MockIncidentRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockRiskRepository(ctrl)
	floodsMock := mocks.NewMockIncidentRepository(ctrl)
	landslidesMock := mocks.NewMockIncidentRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewRiskService(repoMock, floodsMock, landslidesMock, observability.NewMetricsForTesting(), logger)
	return svc.(*riskService), repoMock, floodsMock, landslidesMock
}

func TestRecompute_InsertsRecordForNewAddress(t *testing.T) {
	svc, repoMock, floodsMock, landslidesMock := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()

	assignedID := uuid.New()
	floodsMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(1, nil)
	landslidesMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(1, nil)
	repoMock.EXPECT().GetByAddress(ctx, addressID).Return(nil, e.ErrNotFound)
	repoMock.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, record *models.RiskRecord) error {
		// Identity comes from the insert, the way the storage layer fills
		// it in from the returned row.
		assert.Equal(t, uuid.Nil, record.ID)
		assert.Equal(t, addressID, record.AddressID)
		assert.Equal(t, models.RiskMedium, record.Level)
		assert.Equal(t, 2, record.TotalIncidents)
		record.ID = assignedID
		return nil
	})
	repoMock.EXPECT().InvalidateCache(ctx, addressID).Return(nil)

	record, err := svc.Recompute(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, assignedID, record.ID)
	assert.Equal(t, models.RiskMedium, record.Level)
	assert.Equal(t, 2, record.TotalIncidents)
}

func TestRecompute_UpdatesExistingRecordInPlace(t *testing.T) {
	svc, repoMock, floodsMock, landslidesMock := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()
	recordID := uuid.New()

	existing := &models.RiskRecord{
		ID:             recordID,
		AddressID:      addressID,
		Level:          models.RiskLow,
		TotalIncidents: 1,
	}

	floodsMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(3, nil)
	landslidesMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(2, nil)
	repoMock.EXPECT().GetByAddress(ctx, addressID).Return(existing, nil)
	repoMock.EXPECT().Update(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, record *models.RiskRecord) error {
		assert.Equal(t, recordID, record.ID)
		assert.Equal(t, models.RiskHigh, record.Level)
		assert.Equal(t, 5, record.TotalIncidents)
		return nil
	})
	repoMock.EXPECT().InvalidateCache(ctx, addressID).Return(nil)

	record, err := svc.Recompute(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, recordID, record.ID)
	assert.Equal(t, models.RiskHigh, record.Level)
}

func TestRecompute_IsIdempotent(t *testing.T) {
	svc, repoMock, floodsMock, landslidesMock := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()
	recordID := uuid.New()

	stored := &models.RiskRecord{
		ID:             recordID,
		AddressID:      addressID,
		Level:          models.RiskMedium,
		TotalIncidents: 2,
	}

	floodsMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(2, nil).Times(2)
	landslidesMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(0, nil).Times(2)
	repoMock.EXPECT().GetByAddress(ctx, addressID).Return(stored, nil).Times(2)
	repoMock.EXPECT().Update(ctx, gomock.Any()).Return(nil).Times(2)
	repoMock.EXPECT().InvalidateCache(ctx, addressID).Return(nil).Times(2)

	first, err := svc.Recompute(ctx, addressID)
	require.NoError(t, err)
	second, err := svc.Recompute(ctx, addressID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.TotalIncidents, second.TotalIncidents)
}

func TestRecompute_CountFailureWritesNothing(t *testing.T) {
	svc, _, floodsMock, _ := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()

	floodsMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(0, errors.New("connection reset"))

	_, err := svc.Recompute(ctx, addressID)
	assert.Error(t, err)
}

func TestRecompute_CacheInvalidationFailureIsNotFatal(t *testing.T) {
	svc, repoMock, floodsMock, landslidesMock := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()

	floodsMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(0, nil)
	landslidesMock.EXPECT().CountActiveByAddress(ctx, addressID).Return(1, nil)
	repoMock.EXPECT().GetByAddress(ctx, addressID).Return(nil, e.ErrNotFound)
	repoMock.EXPECT().Insert(ctx, gomock.Any()).Return(nil)
	repoMock.EXPECT().InvalidateCache(ctx, addressID).Return(errors.New("redis down"))

	record, err := svc.Recompute(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, models.RiskLow, record.Level)
}

func TestGetByAddress_PrefersCache(t *testing.T) {
	svc, repoMock, _, _ := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()

	cached := &models.RiskRecord{ID: uuid.New(), AddressID: addressID, Level: models.RiskHigh}
	repoMock.EXPECT().GetCached(ctx, addressID).Return(cached, nil)

	record, err := svc.GetByAddress(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, cached, record)
}

func TestGetByAddress_MissFallsBackToStorage(t *testing.T) {
	svc, repoMock, _, _ := newTestRiskService(t)
	ctx := context.Background()
	addressID := uuid.New()

	stored := &models.RiskRecord{ID: uuid.New(), AddressID: addressID, Level: models.RiskMedium}
	repoMock.EXPECT().GetCached(ctx, addressID).Return(nil, nil)
	repoMock.EXPECT().GetByAddress(ctx, addressID).Return(stored, nil)
	repoMock.EXPECT().SetCache(ctx, stored).Return(nil)

	record, err := svc.GetByAddress(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, stored, record)
}

func TestRecomputeAll_DeduplicatesAddresses(t *testing.T) {
	svc, repoMock, floodsMock, landslidesMock := newTestRiskService(t)
	ctx := context.Background()
	shared := uuid.New()
	floodOnly := uuid.New()

	floodsMock.EXPECT().DistinctAddressIDs(ctx).Return([]uuid.UUID{shared, floodOnly}, nil)
	landslidesMock.EXPECT().DistinctAddressIDs(ctx).Return([]uuid.UUID{shared}, nil)

	// Each distinct address is recomputed exactly once.
	floodsMock.EXPECT().CountActiveByAddress(ctx, gomock.Any()).Return(0, nil).Times(2)
	landslidesMock.EXPECT().CountActiveByAddress(ctx, gomock.Any()).Return(1, nil).Times(2)
	repoMock.EXPECT().GetByAddress(ctx, gomock.Any()).Return(nil, e.ErrNotFound).Times(2)
	repoMock.EXPECT().Insert(ctx, gomock.Any()).Return(nil).Times(2)
	repoMock.EXPECT().InvalidateCache(ctx, gomock.Any()).Return(nil).Times(2)

	require.NoError(t, svc.RecomputeAll(ctx))
}
