package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestAlertService(t *testing.T) (*alertService, *mocks.MockAlertRepository, *mocks.MockAddressRepository, *mocks.MockNotificationRepository, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAlertRepository(ctrl)
	addressesMock := mocks.NewMockAddressRepository(ctrl)
	notificationsMock := mocks.NewMockNotificationRepository(ctrl)
	clock := clockwork.NewFakeClock()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewAlertService(repoMock, addressesMock, notificationsMock, observability.NewMetricsForTesting(), clock, logger)
	return svc.(*alertService), repoMock, addressesMock, notificationsMock, clock
}

func TestPublishAlert_NotifiesEveryResident(t *testing.T) {
	svc, repoMock, addressesMock, notificationsMock, _ := newTestAlertService(t)
	ctx := context.Background()
	residents := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	alert := &models.Alert{
		Title:                 "Alerta de enchente",
		Description:           "Evacuar áreas ribeirinhas.",
		Level:                 models.RiskHigh,
		AffectedNeighborhoods: []string{"Centro"},
	}

	repoMock.EXPECT().Create(ctx, alert).Return(nil)
	addressesMock.EXPECT().FindResidentsByNeighborhood(ctx, "Centro").Return(residents, nil)
	notificationsMock.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, n *models.Notification) error {
			assert.Equal(t, "Alerta de enchente", n.Title)
			assert.Equal(t, "Novo alerta para o bairro Centro: Evacuar áreas ribeirinhas.", n.Message)
			assert.Equal(t, models.RiskHigh, n.Priority)
			return nil
		}).Times(3)

	require.NoError(t, svc.Publish(ctx, alert))
	assert.True(t, alert.Active)
}

func TestPublishAlert_EmptyDescriptionUsesFallbackGuidance(t *testing.T) {
	svc, repoMock, addressesMock, notificationsMock, _ := newTestAlertService(t)
	ctx := context.Background()
	userID := uuid.New()

	alert := &models.Alert{
		Title:                 "Deslizamento iminente",
		Description:           "   ",
		AffectedNeighborhoods: []string{"Vila Nova"},
	}

	repoMock.EXPECT().Create(ctx, alert).Return(nil)
	addressesMock.EXPECT().FindResidentsByNeighborhood(ctx, "Vila Nova").Return([]uuid.UUID{userID}, nil)
	notificationsMock.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, n *models.Notification) error {
			assert.Equal(t, "Novo alerta para o bairro Vila Nova: Verifique as informações oficiais.", n.Message)
			return nil
		})

	require.NoError(t, svc.Publish(ctx, alert))
}

func TestPublishAlert_BlankNeighborhoodsSkipped(t *testing.T) {
	svc, repoMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	// No resident lookups and no notifications, but the alert itself persists.
	alert := &models.Alert{
		Title:                 "Alerta geral",
		AffectedNeighborhoods: []string{"", "   "},
	}
	repoMock.EXPECT().Create(ctx, alert).Return(nil)

	require.NoError(t, svc.Publish(ctx, alert))
}

func TestPublishAlert_FanOutFailureDoesNotFailPublish(t *testing.T) {
	svc, repoMock, addressesMock, _, _ := newTestAlertService(t)
	ctx := context.Background()

	alert := &models.Alert{
		Title:                 "Alerta de enchente",
		AffectedNeighborhoods: []string{"Centro", "Vila Nova"},
	}

	repoMock.EXPECT().Create(ctx, alert).Return(nil)
	// Lookup for the first neighborhood fails and aborts the remaining fan-out.
	addressesMock.EXPECT().FindResidentsByNeighborhood(ctx, "Centro").Return(nil, errors.New("connection reset"))

	require.NoError(t, svc.Publish(ctx, alert))
}

func TestPublishAlert_NotificationWriteFailureAbortsRemainder(t *testing.T) {
	svc, repoMock, addressesMock, notificationsMock, _ := newTestAlertService(t)
	ctx := context.Background()
	residents := []uuid.UUID{uuid.New(), uuid.New()}

	alert := &models.Alert{
		Title:                 "Alerta de enchente",
		AffectedNeighborhoods: []string{"Centro"},
	}

	repoMock.EXPECT().Create(ctx, alert).Return(nil)
	addressesMock.EXPECT().FindResidentsByNeighborhood(ctx, "Centro").Return(residents, nil)
	notificationsMock.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("write failed"))

	require.NoError(t, svc.Publish(ctx, alert))
}

func TestPublishAlert_BlankTitleRejected(t *testing.T) {
	svc, _, _, _, _ := newTestAlertService(t)

	err := svc.Publish(context.Background(), &models.Alert{Title: "   "})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestPublishAlert_TitleOver200RunesRejected(t *testing.T) {
	svc, _, _, _, _ := newTestAlertService(t)

	err := svc.Publish(context.Background(), &models.Alert{Title: strings.Repeat("á", 201)})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestPublishAlert_TitleOf200RunesAccepted(t *testing.T) {
	svc, repoMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	alert := &models.Alert{Title: strings.Repeat("á", 200)}
	repoMock.EXPECT().Create(ctx, alert).Return(nil)

	require.NoError(t, svc.Publish(ctx, alert))
}

func TestPublishAlert_Defaults(t *testing.T) {
	svc, repoMock, _, _, clock := newTestAlertService(t)
	ctx := context.Background()

	alert := &models.Alert{Title: "Alerta"}
	repoMock.EXPECT().Create(ctx, alert).Return(nil)

	require.NoError(t, svc.Publish(ctx, alert))
	assert.NotEqual(t, uuid.Nil, alert.ID)
	assert.Equal(t, models.RiskLow, alert.Level)
	assert.Equal(t, clock.Now(), alert.StartsAt)
	assert.True(t, alert.Active)
}

func TestPublishAlert_ExplicitStartPreserved(t *testing.T) {
	svc, repoMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()
	startsAt := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

	alert := &models.Alert{Title: "Alerta", StartsAt: startsAt}
	repoMock.EXPECT().Create(ctx, alert).Return(nil)

	require.NoError(t, svc.Publish(ctx, alert))
	assert.Equal(t, startsAt, alert.StartsAt)
}

func TestUpdateAlert_DoesNotNotifyAgain(t *testing.T) {
	svc, repoMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()

	alert := &models.Alert{
		ID:                    uuid.New(),
		Title:                 "Alerta atualizado",
		AffectedNeighborhoods: []string{"Centro"},
	}
	repoMock.EXPECT().Update(ctx, alert).Return(nil)

	require.NoError(t, svc.Update(ctx, alert))
}

func TestDeactivateAlert(t *testing.T) {
	svc, repoMock, _, _, _ := newTestAlertService(t)
	ctx := context.Background()
	alertID := uuid.New()

	repoMock.EXPECT().Deactivate(ctx, alertID).Return(nil)

	require.NoError(t, svc.Deactivate(ctx, alertID))
}
