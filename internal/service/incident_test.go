package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestIncidentService(t *testing.T) (*incidentService, *mocks.MockIncidentRepository, *mocks.MockIncidentRepository, *mocks.MockAddressResolver, *mocks.MockRiskAggregator, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	floodsMock := mocks.NewMockIncidentRepository(ctrl)
	landslidesMock := mocks.NewMockIncidentRepository(ctrl)
	addressesMock := mocks.NewMockAddressResolver(ctrl)
	risksMock := mocks.NewMockRiskAggregator(ctrl)
	clock := clockwork.NewFakeClock()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewIncidentService(floodsMock, landslidesMock, addressesMock, risksMock, clock, logger)
	return svc.(*incidentService), floodsMock, landslidesMock, addressesMock, risksMock, clock
}

func TestCreateFlood_DoesNotRecomputeRisk(t *testing.T) {
	svc, floodsMock, _, addressesMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	addressID := uuid.New()

	addressesMock.EXPECT().GetByID(ctx, addressID).Return(&models.Address{ID: addressID}, nil)
	floodsMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	// No Recompute expectation: flood registration must not trigger it.

	incident := &models.Incident{
		UserID:    uuid.New(),
		AddressID: addressID,
	}
	require.NoError(t, svc.Create(ctx, models.KindFlood, incident))
	assert.True(t, incident.Active)
}

func TestCreateLandslide_RecomputesRiskSynchronously(t *testing.T) {
	svc, _, landslidesMock, addressesMock, risksMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	addressID := uuid.New()

	addressesMock.EXPECT().GetByID(ctx, addressID).Return(&models.Address{ID: addressID}, nil)
	landslidesMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	risksMock.EXPECT().Recompute(ctx, addressID).Return(&models.RiskRecord{AddressID: addressID, Level: models.RiskMedium}, nil)

	incident := &models.Incident{
		UserID:    uuid.New(),
		AddressID: addressID,
	}
	require.NoError(t, svc.Create(ctx, models.KindLandslide, incident))
}

func TestCreate_DefaultsOccurredAtToNow(t *testing.T) {
	svc, floodsMock, _, addressesMock, _, clock := newTestIncidentService(t)
	ctx := context.Background()
	addressID := uuid.New()

	addressesMock.EXPECT().GetByID(ctx, addressID).Return(&models.Address{ID: addressID}, nil)
	floodsMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	incident := &models.Incident{UserID: uuid.New(), AddressID: addressID}
	require.NoError(t, svc.Create(ctx, models.KindFlood, incident))
	assert.Equal(t, clock.Now(), incident.OccurredAt)
}

func TestCreate_PreservesExplicitOccurredAt(t *testing.T) {
	svc, floodsMock, _, addressesMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	addressID := uuid.New()
	occurred := time.Date(2026, 2, 14, 8, 30, 0, 0, time.UTC)

	addressesMock.EXPECT().GetByID(ctx, addressID).Return(&models.Address{ID: addressID}, nil)
	floodsMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	incident := &models.Incident{UserID: uuid.New(), AddressID: addressID, OccurredAt: occurred}
	require.NoError(t, svc.Create(ctx, models.KindFlood, incident))
	assert.Equal(t, occurred, incident.OccurredAt)
}

func TestCreate_UnknownAddressFails(t *testing.T) {
	svc, _, _, addressesMock, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	addressID := uuid.New()

	addressesMock.EXPECT().GetByID(ctx, addressID).Return(nil, e.ErrNotFound)

	incident := &models.Incident{UserID: uuid.New(), AddressID: addressID}
	err := svc.Create(ctx, models.KindFlood, incident)
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdate_OtherUserIsForbidden(t *testing.T) {
	svc, floodsMock, _, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	floodsMock.EXPECT().GetByID(ctx, incidentID).Return(&models.Incident{ID: incidentID, UserID: owner}, nil)

	err := svc.Update(ctx, models.KindFlood, stranger, &models.Incident{ID: incidentID})
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestUpdate_ReporterEditsOwnIncident(t *testing.T) {
	svc, floodsMock, _, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	owner := uuid.New()

	floodsMock.EXPECT().GetByID(ctx, incidentID).Return(&models.Incident{ID: incidentID, UserID: owner}, nil)
	floodsMock.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	incident := &models.Incident{ID: incidentID, Description: "nível subiu"}
	require.NoError(t, svc.Update(ctx, models.KindFlood, owner, incident))
	assert.Equal(t, owner, incident.UserID)
}

func TestDelete_OwnerSoftDeletes(t *testing.T) {
	svc, _, landslidesMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	owner := uuid.New()

	landslidesMock.EXPECT().GetByID(ctx, incidentID).Return(&models.Incident{ID: incidentID, UserID: owner}, nil)
	landslidesMock.EXPECT().SoftDelete(ctx, incidentID).Return(nil)

	require.NoError(t, svc.Delete(ctx, models.KindLandslide, owner, incidentID))
}

func TestDelete_OtherUserIsForbidden(t *testing.T) {
	svc, _, landslidesMock, _, _, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	landslidesMock.EXPECT().GetByID(ctx, incidentID).Return(&models.Incident{ID: incidentID, UserID: uuid.New()}, nil)

	err := svc.Delete(ctx, models.KindLandslide, uuid.New(), incidentID)
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestCreate_UnknownKindIsInvalid(t *testing.T) {
	svc, _, _, _, _, _ := newTestIncidentService(t)

	err := svc.Create(context.Background(), models.IncidentKind("earthquake"), &models.Incident{})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
