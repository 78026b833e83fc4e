package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestVerificationService(t *testing.T) (*verificationService, *mocks.MockVerificationRepository, *mocks.MockIncidentRepository, *mocks.MockIncidentRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockVerificationRepository(ctrl)
	floodsMock := mocks.NewMockIncidentRepository(ctrl)
	landslidesMock := mocks.NewMockIncidentRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewVerificationService(repoMock, floodsMock, landslidesMock, logger)
	return svc.(*verificationService), repoMock, floodsMock, landslidesMock
}

func TestCreateVerification_Flood(t *testing.T) {
	svc, repoMock, floodsMock, _ := newTestVerificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	floodID := uuid.New()

	floodsMock.EXPECT().GetByID(ctx, floodID).Return(&models.Incident{ID: floodID}, nil)
	repoMock.EXPECT().HasVerified(ctx, userID, &floodID, nil).Return(false, nil)
	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	verification := &models.Verification{UserID: userID, FloodID: &floodID, Confirmed: true}
	require.NoError(t, svc.Create(ctx, verification))
	assert.NotEqual(t, uuid.Nil, verification.ID)
}

func TestCreateVerification_BothReferencesRejectedBeforeStorage(t *testing.T) {
	svc, _, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	floodID := uuid.New()
	landslideID := uuid.New()

	// No repository expectations: the payload never reaches storage.
	verification := &models.Verification{
		UserID:      uuid.New(),
		FloodID:     &floodID,
		LandslideID: &landslideID,
	}
	err := svc.Create(ctx, verification)
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestCreateVerification_NeitherReferenceRejected(t *testing.T) {
	svc, _, _, _ := newTestVerificationService(t)

	err := svc.Create(context.Background(), &models.Verification{UserID: uuid.New()})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

func TestCreateVerification_SecondVoteConflicts(t *testing.T) {
	svc, repoMock, _, landslidesMock := newTestVerificationService(t)
	ctx := context.Background()
	userID := uuid.New()
	landslideID := uuid.New()

	landslidesMock.EXPECT().GetByID(ctx, landslideID).Return(&models.Incident{ID: landslideID}, nil)
	repoMock.EXPECT().HasVerified(ctx, userID, nil, &landslideID).Return(true, nil)

	verification := &models.Verification{UserID: userID, LandslideID: &landslideID}
	err := svc.Create(ctx, verification)
	assert.ErrorIs(t, err, e.ErrConflict)
}

func TestCreateVerification_MissingIncident(t *testing.T) {
	svc, _, floodsMock, _ := newTestVerificationService(t)
	ctx := context.Background()
	floodID := uuid.New()

	floodsMock.EXPECT().GetByID(ctx, floodID).Return(nil, e.ErrNotFound)

	err := svc.Create(ctx, &models.Verification{UserID: uuid.New(), FloodID: &floodID})
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestUpdateVerification_OnlyVoterMayChange(t *testing.T) {
	svc, repoMock, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	verificationID := uuid.New()
	voter := uuid.New()

	repoMock.EXPECT().GetByID(ctx, verificationID).Return(&models.Verification{ID: verificationID, UserID: voter}, nil)

	err := svc.Update(ctx, uuid.New(), &models.Verification{ID: verificationID, Confirmed: false})
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestDeleteVerification_VoterWithdraws(t *testing.T) {
	svc, repoMock, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	verificationID := uuid.New()
	voter := uuid.New()

	repoMock.EXPECT().GetByID(ctx, verificationID).Return(&models.Verification{ID: verificationID, UserID: voter}, nil)
	repoMock.EXPECT().SoftDelete(ctx, verificationID).Return(nil)

	require.NoError(t, svc.Delete(ctx, voter, verificationID))
}

func TestStatsByFlood_DerivesPercentFromCounts(t *testing.T) {
	svc, repoMock, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	floodID := uuid.New()

	repoMock.EXPECT().StatsByFlood(ctx, floodID).Return(&models.VerificationStats{Total: 4, Confirmed: 3, Denied: 1}, nil)

	got, err := svc.StatsByFlood(ctx, floodID)
	require.NoError(t, err)
	assert.Equal(t, &models.VerificationStats{Total: 4, Confirmed: 3, Denied: 1, ConfirmedPercent: 75}, got)
}

func TestStatsByFlood_NoVerificationsIsZeroPercent(t *testing.T) {
	svc, repoMock, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	floodID := uuid.New()

	repoMock.EXPECT().StatsByFlood(ctx, floodID).Return(&models.VerificationStats{}, nil)

	got, err := svc.StatsByFlood(ctx, floodID)
	require.NoError(t, err)
	assert.Equal(t, &models.VerificationStats{Total: 0, Confirmed: 0, Denied: 0, ConfirmedPercent: 0}, got)
}

func TestStatsByLandslide_DerivesPercentFromCounts(t *testing.T) {
	svc, repoMock, _, _ := newTestVerificationService(t)
	ctx := context.Background()
	landslideID := uuid.New()

	repoMock.EXPECT().StatsByLandslide(ctx, landslideID).Return(&models.VerificationStats{Total: 3, Confirmed: 1, Denied: 2}, nil)

	got, err := svc.StatsByLandslide(ctx, landslideID)
	require.NoError(t, err)
	assert.InDelta(t, 33.33, got.ConfirmedPercent, 0.01)
}
