package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/config"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

type Handler struct {
	authService         service.AuthService
	addressService      service.AddressService
	incidentService     service.IncidentService
	riskService         service.RiskService
	verificationService service.VerificationService
	alertService        service.AlertService
	notificationService service.NotificationService
	reportService       service.ReportService
	logger              *logrus.Logger
	validate            *validator.Validate
	cfg                 *config.Config
}

type Services struct {
	Auth         service.AuthService
	Address      service.AddressService
	Incident     service.IncidentService
	Risk         service.RiskService
	Verification service.VerificationService
	Alert        service.AlertService
	Notification service.NotificationService
	Report       service.ReportService
}

func NewHandler(services Services, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		authService:         services.Auth,
		addressService:      services.Address,
		incidentService:     services.Incident,
		riskService:         services.Risk,
		verificationService: services.Verification,
		alertService:        services.Alert,
		notificationService: services.Notification,
		reportService:       services.Report,
		logger:              logger,
		validate:            validator.New(),
		cfg:                 cfg,
	}
}

// respondError maps a service error onto an HTTP status. Unclassified errors
// are logged and reported as 500 without leaking details.
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		log.WithError(err).Warn("invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrForbidden):
		log.WithError(err).Warn("forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, e.ErrNotFound):
		log.WithError(err).Warn("not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, e.ErrConflict):
		log.WithError(err).Warn("conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// healthCheck
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
