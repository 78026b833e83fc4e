package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/observability"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

const (
	maxAlertTitleLen      = 200
	alertFallbackGuidance = "Verifique as informações oficiais."
	alertNotificationBody = "Novo alerta para o bairro %s: %s"
)

// AlertService publishes civil defense alerts and fans them out as personal
// notifications to the residents of the affected neighborhoods.
type AlertService interface {
	Publish(ctx context.Context, alert *models.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error)
	ListAll(ctx context.Context) ([]*models.Alert, error)
	ListActive(ctx context.Context) ([]*models.Alert, error)
	ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.Alert, error)
	Update(ctx context.Context, alert *models.Alert) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type alertService struct {
	repo          AlertRepository
	addresses     AddressResolver
	notifications NotificationSink
	metrics       *observability.Metrics
	clock         clockwork.Clock
	logger        *logrus.Logger
}

func NewAlertService(repo AlertRepository, addresses AddressResolver, notifications NotificationSink, metrics *observability.Metrics, clock clockwork.Clock, logger *logrus.Logger) AlertService {
	return &alertService{
		repo:          repo,
		addresses:     addresses,
		notifications: notifications,
		metrics:       metrics,
		clock:         clock,
		logger:        logger,
	}
}

// Publish stores the alert and then notifies every resident of its affected
// neighborhoods. The alert write and the fan-out are separate steps: once
// the alert is stored, a notification failure never undoes it.
func (s *alertService) Publish(ctx context.Context, alert *models.Alert) error {
	title := strings.TrimSpace(alert.Title)
	if title == "" {
		return e.Wrap("service.alert.Publish: title is required", e.ErrInvalidInput)
	}
	if len([]rune(alert.Title)) > maxAlertTitleLen {
		return e.Wrap("service.alert.Publish: title exceeds 200 characters", e.ErrInvalidInput)
	}

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Level == "" {
		alert.Level = models.RiskLow
	}
	if alert.StartsAt.IsZero() {
		alert.StartsAt = s.clock.Now()
	}
	alert.Active = true

	if err := s.repo.Create(ctx, alert); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"service":       "alert",
		"alert_id":      alert.ID,
		"level":         alert.Level,
		"neighborhoods": alert.AffectedNeighborhoods,
	}).Info("alert published")

	s.fanOut(ctx, alert)
	return nil
}

// fanOut writes one notification per resident of each affected neighborhood.
// The first write failure aborts the remainder of the fan-out; notifications
// already written stay delivered.
func (s *alertService) fanOut(ctx context.Context, alert *models.Alert) {
	message := strings.TrimSpace(alert.Description)
	if message == "" {
		message = alertFallbackGuidance
	}

	for _, neighborhood := range alert.AffectedNeighborhoods {
		neighborhood = strings.TrimSpace(neighborhood)
		if neighborhood == "" {
			continue
		}

		residents, err := s.addresses.FindResidentsByNeighborhood(ctx, neighborhood)
		if err != nil {
			s.metrics.FanoutFailures.Inc()
			s.logger.WithFields(logrus.Fields{
				"service":      "alert",
				"alert_id":     alert.ID,
				"neighborhood": neighborhood,
			}).WithError(err).Error("fan-out aborted: resident lookup failed")
			return
		}

		for _, userID := range residents {
			notification := &models.Notification{
				ID:       uuid.New(),
				UserID:   userID,
				Title:    alert.Title,
				Message:  fmt.Sprintf(alertNotificationBody, neighborhood, message),
				Priority: alert.Level,
			}
			if err := s.notifications.Create(ctx, notification); err != nil {
				s.metrics.FanoutFailures.Inc()
				s.logger.WithFields(logrus.Fields{
					"service":      "alert",
					"alert_id":     alert.ID,
					"neighborhood": neighborhood,
					"user_id":      userID,
				}).WithError(err).Error("fan-out aborted: notification write failed")
				return
			}
			s.metrics.NotificationsFanned.Inc()
		}
	}
}

func (s *alertService) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *alertService) ListAll(ctx context.Context) ([]*models.Alert, error) {
	return s.repo.ListAll(ctx)
}

func (s *alertService) ListActive(ctx context.Context) ([]*models.Alert, error) {
	return s.repo.ListActive(ctx)
}

func (s *alertService) ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.Alert, error) {
	return s.repo.ListByLevel(ctx, level)
}

// Update edits an alert's content without re-notifying residents.
func (s *alertService) Update(ctx context.Context, alert *models.Alert) error {
	title := strings.TrimSpace(alert.Title)
	if title == "" {
		return e.Wrap("service.alert.Update: title is required", e.ErrInvalidInput)
	}
	if len([]rune(alert.Title)) > maxAlertTitleLen {
		return e.Wrap("service.alert.Update: title exceeds 200 characters", e.ErrInvalidInput)
	}
	return s.repo.Update(ctx, alert)
}

func (s *alertService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *alertService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
