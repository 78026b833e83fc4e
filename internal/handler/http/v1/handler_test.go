package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/climaticrisks/climatic-risks/internal/config"
	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/internal/service/mocks"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// testRepos holds the repository mocks behind the real service layer, so the
// HTTP tests exercise handlers and services together.
type testRepos struct {
	users         *mocks.MockUserRepository
	addresses     *mocks.MockAddressRepository
	floods        *mocks.MockIncidentRepository
	landslides    *mocks.MockIncidentRepository
	risks         *mocks.MockRiskRepository
	verifications *mocks.MockVerificationRepository
	alerts        *mocks.MockAlertRepository
	notifications *mocks.MockNotificationRepository
	reports       *mocks.MockReportRepository
}

func newTestHandler(t *testing.T) (*testRepos, *gin.Engine, service.AuthService) {
	ctrl := gomock.NewController(t)
	repos := &testRepos{
		users:         mocks.NewMockUserRepository(ctrl),
		addresses:     mocks.NewMockAddressRepository(ctrl),
		floods:        mocks.NewMockIncidentRepository(ctrl),
		landslides:    mocks.NewMockIncidentRepository(ctrl),
		risks:         mocks.NewMockRiskRepository(ctrl),
		verifications: mocks.NewMockVerificationRepository(ctrl),
		alerts:        mocks.NewMockAlertRepository(ctrl),
		notifications: mocks.NewMockNotificationRepository(ctrl),
		reports:       mocks.NewMockReportRepository(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClock()

	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "climatic-risks",
		JWTTTL:    time.Hour,
	}

	authService := service.NewAuthService(repos.users, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, clock, logger)
	riskService := service.NewRiskService(repos.risks, repos.floods, repos.landslides, metrics, logger)

	handler := NewHandler(Services{
		Auth:         authService,
		Address:      service.NewAddressService(repos.addresses, logger),
		Incident:     service.NewIncidentService(repos.floods, repos.landslides, repos.addresses, riskService, clock, logger),
		Risk:         riskService,
		Verification: service.NewVerificationService(repos.verifications, repos.floods, repos.landslides, logger),
		Alert:        service.NewAlertService(repos.alerts, repos.addresses, repos.notifications, metrics, clock, logger),
		Notification: service.NewNotificationService(repos.notifications, logger),
		Report:       service.NewReportService(repos.reports, metrics, logger),
	}, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return repos, router, authService
}

func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// issueToken logs in through the real auth service and returns the headers of
// an authenticated request.
func issueToken(t *testing.T, repos *testRepos, auth service.AuthService, userID uuid.UUID, civilDefense bool) map[string]string {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	repos.users.EXPECT().GetByEmail(gomock.Any(), "token@example.com").Return(&models.User{
		ID:             userID,
		Email:          "token@example.com",
		PasswordHash:   string(hash),
		IsCivilDefense: civilDefense,
	}, nil)

	token, err := auth.Login(context.Background(), "token@example.com", "s3nh4-forte")
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func validAddressRequest() AddressRequest {
	return AddressRequest{
		Logradouro:       "Rua das Flores, 120",
		Bairro:           "Centro",
		CEP:              "90000-000",
		SoilType:         "terra",
		StreetElevation:  "nível",
		ConstructionType: "alvenaria",
		NearWaterway:     true,
	}
}

func TestHealthCheck(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRegister_Success(t *testing.T) {
	repos, router, _ := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "s3nh4-forte",
		Address:  validAddressRequest(),
	}

	repos.users.EXPECT().ExistsByEmail(gomock.Any(), "maria@example.com").Return(false, nil)
	repos.users.EXPECT().CreateWithAddress(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User, address *models.Address) error {
			assert.Equal(t, models.SoilBareEarth, address.SoilType)
			assert.Equal(t, address.ID, user.AddressID)
			return nil
		})

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "maria@example.com", resp.Email)
	assert.False(t, resp.IsCivilDefense)
}

func TestRegister_UnknownSoilType(t *testing.T) {
	repos, router, _ := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "s3nh4-forte",
		Address:  validAddressRequest(),
	}
	reqBody.Address.SoilType = "granito"

	repos.users.EXPECT().ExistsByEmail(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repos, router, _ := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Password: "s3nh4-forte",
		Address:  validAddressRequest(),
	}

	repos.users.EXPECT().ExistsByEmail(gomock.Any(), "maria@example.com").Return(true, nil)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	repos, router, _ := newTestHandler(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4-forte"), bcrypt.MinCost)
	require.NoError(t, err)

	repos.users.EXPECT().GetByEmail(gomock.Any(), "maria@example.com").Return(&models.User{
		PasswordHash: string(hash),
	}, nil)

	bodyBytes, _ := json.Marshal(LoginRequest{Email: "maria@example.com", Password: "errada"})
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/floods", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authorization required")
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	_, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/floods", nil, map[string]string{"Authorization": "Bearer not-a-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestCreateFlood_NoRiskRecompute(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	userID := uuid.New()
	addressID := uuid.New()
	headers := issueToken(t, repos, auth, userID, false)

	repos.addresses.EXPECT().GetByID(gomock.Any(), addressID).Return(&models.Address{ID: addressID}, nil)
	repos.floods.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	// No expectations on the risk repository: a flood report must not
	// recompute anything.

	bodyBytes, _ := json.Marshal(CreateIncidentRequest{AddressID: addressID, Description: "Água na soleira"})
	w := makeRequest(router, "POST", "/api/v1/floods", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.True(t, resp.Active)
}

func TestCreateLandslide_RecomputesRisk(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	userID := uuid.New()
	addressID := uuid.New()
	headers := issueToken(t, repos, auth, userID, false)

	repos.addresses.EXPECT().GetByID(gomock.Any(), addressID).Return(&models.Address{ID: addressID}, nil)
	repos.landslides.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	repos.floods.EXPECT().CountActiveByAddress(gomock.Any(), addressID).Return(1, nil)
	repos.landslides.EXPECT().CountActiveByAddress(gomock.Any(), addressID).Return(1, nil)
	repos.risks.EXPECT().GetByAddress(gomock.Any(), addressID).Return(nil, e.ErrNotFound)
	repos.risks.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *models.RiskRecord) error {
			assert.Equal(t, models.RiskMedium, record.Level)
			return nil
		})
	repos.risks.EXPECT().InvalidateCache(gomock.Any(), addressID).Return(nil)

	bodyBytes, _ := json.Marshal(CreateIncidentRequest{AddressID: addressID})
	w := makeRequest(router, "POST", "/api/v1/landslides", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateIncident_UnknownAddress(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	addressID := uuid.New()
	headers := issueToken(t, repos, auth, uuid.New(), false)

	repos.addresses.EXPECT().GetByID(gomock.Any(), addressID).Return(nil, e.ErrNotFound)

	bodyBytes, _ := json.Marshal(CreateIncidentRequest{AddressID: addressID})
	w := makeRequest(router, "POST", "/api/v1/floods", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateFlood_StrangerForbidden(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	floodID := uuid.New()
	headers := issueToken(t, repos, auth, uuid.New(), false)

	repos.floods.EXPECT().GetByID(gomock.Any(), floodID).Return(&models.Incident{ID: floodID, UserID: uuid.New()}, nil)

	bodyBytes, _ := json.Marshal(UpdateIncidentRequest{Description: "Atualizado"})
	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/floods/%s", floodID), bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateVerification_BothReferences(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), false)
	floodID := uuid.New()
	landslideID := uuid.New()

	bodyBytes, _ := json.Marshal(CreateVerificationRequest{FloodID: &floodID, LandslideID: &landslideID})
	w := makeRequest(router, "POST", "/api/v1/verifications", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecomputeAllRisks_ResidentForbidden(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), false)

	w := makeRequest(router, "POST", "/api/v1/risks/recompute", nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "civil defense role required")
}

func TestPublishAlert_ResidentForbidden(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), false)

	bodyBytes, _ := json.Marshal(CreateAlertRequest{Title: "Alerta de enchente"})
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "civil defense role required")
}

func TestPublishAlert_CivilDefenseFansOut(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), true)
	residents := []uuid.UUID{uuid.New(), uuid.New()}

	repos.alerts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	repos.addresses.EXPECT().FindResidentsByNeighborhood(gomock.Any(), "Centro").Return(residents, nil)
	repos.notifications.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	bodyBytes, _ := json.Marshal(CreateAlertRequest{
		Title:                 "Alerta de enchente",
		Description:           "Evacuar áreas ribeirinhas.",
		Level:                 "alto",
		AffectedNeighborhoods: []string{"Centro"},
	})
	w := makeRequest(router, "POST", "/api/v1/alerts", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AlertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Active)
	assert.Equal(t, "alto", resp.Level)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	userID := uuid.New()
	headers := issueToken(t, repos, auth, userID, false)

	repos.notifications.EXPECT().MarkAllRead(gomock.Any(), userID).Return(nil)

	w := makeRequest(router, "PUT", "/api/v1/notifications/read-all", nil, headers)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGenerateReport_EmptyRegionIsConsolidated(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), true)

	repos.reports.EXPECT().CountIncidents(gomock.Any(), models.KindFlood, "2025-06", "").Return(4, nil)
	repos.reports.EXPECT().CountIncidents(gomock.Any(), models.KindLandslide, "2025-06", "").Return(1, nil)
	repos.reports.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	bodyBytes, _ := json.Marshal(GenerateReportRequest{Period: "2025-06"})
	w := makeRequest(router, "POST", "/api/v1/reports", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "CONSOLIDADO", resp.Region)
	assert.Equal(t, 5, resp.TotalIncidents)
}

func TestGetRiskByAddress_CacheMiss(t *testing.T) {
	repos, router, auth := newTestHandler(t)
	headers := issueToken(t, repos, auth, uuid.New(), false)
	addressID := uuid.New()
	record := &models.RiskRecord{ID: uuid.New(), AddressID: addressID, Level: models.RiskHigh, TotalIncidents: 6}

	repos.risks.EXPECT().GetCached(gomock.Any(), addressID).Return(nil, nil)
	repos.risks.EXPECT().GetByAddress(gomock.Any(), addressID).Return(record, nil)
	repos.risks.EXPECT().SetCache(gomock.Any(), record).Return(nil)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/addresses/%s/risk", addressID), nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RiskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alto", resp.Level)
	assert.Equal(t, 6, resp.TotalIncidents)
}
