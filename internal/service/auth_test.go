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
	"golang.org/x/crypto/bcrypt"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

func newTestAuthService(t *testing.T) (*authService, *mocks.MockUserRepository, *clockwork.FakeClock) {
	ctrl := gomock.NewController(t)
	usersMock := mocks.NewMockUserRepository(ctrl)
	clock := clockwork.NewFakeClock()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewAuthService(usersMock, "test-secret", "climatic-risks", time.Hour, clock, logger)
	return svc.(*authService), usersMock, clock
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_LinksUserToAddress(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	user := &models.User{Name: "Maria", Email: "maria@example.com"}
	address := &models.Address{Logradouro: "Rua das Flores", Bairro: "Centro"}

	usersMock.EXPECT().ExistsByEmail(ctx, "maria@example.com").Return(false, nil)
	usersMock.EXPECT().CreateWithAddress(ctx, user, address).Return(nil)

	require.NoError(t, svc.Register(ctx, user, address, "s3nh4-forte"))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, uuid.Nil, address.ID)
	assert.Equal(t, address.ID, user.AddressID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3nh4-forte")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().ExistsByEmail(ctx, "maria@example.com").Return(true, nil)

	err := svc.Register(ctx, &models.User{Email: "maria@example.com"}, &models.Address{}, "s3nh4-forte")
	assert.ErrorIs(t, err, e.ErrConflict)
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	userID := uuid.New()

	usersMock.EXPECT().GetByEmail(ctx, "maria@example.com").Return(&models.User{
		ID:             userID,
		Email:          "maria@example.com",
		PasswordHash:   hashPassword(t, "s3nh4-forte"),
		IsCivilDefense: true,
	}, nil)

	token, err := svc.Login(ctx, "maria@example.com", "s3nh4-forte")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.CivilDefense)
	assert.Equal(t, "climatic-risks", claims.Issuer)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().GetByEmail(ctx, "maria@example.com").Return(&models.User{
		PasswordHash: hashPassword(t, "s3nh4-forte"),
	}, nil)

	_, err := svc.Login(ctx, "maria@example.com", "errada")
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestLogin_UnknownEmailIsForbiddenNotNotFound(t *testing.T) {
	svc, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, e.ErrNotFound)

	_, err := svc.Login(ctx, "ghost@example.com", "s3nh4-forte")
	assert.ErrorIs(t, err, e.ErrForbidden)
	assert.NotErrorIs(t, err, e.ErrNotFound)
}

func TestParseToken_Expired(t *testing.T) {
	svc, usersMock, clock := newTestAuthService(t)
	ctx := context.Background()

	usersMock.EXPECT().GetByEmail(ctx, "maria@example.com").Return(&models.User{
		ID:           uuid.New(),
		PasswordHash: hashPassword(t, "s3nh4-forte"),
	}, nil)

	token, err := svc.Login(ctx, "maria@example.com", "s3nh4-forte")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, e.ErrForbidden)
}

func TestParseToken_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, e.ErrForbidden)
}
