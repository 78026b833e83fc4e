package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// NotificationService serves each user's personal inbox of alert
// notifications.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	ListUnread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type notificationService struct {
	repo   NotificationRepository
	logger *logrus.Logger
}

func NewNotificationService(repo NotificationRepository, logger *logrus.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) ListUnread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	return s.repo.ListUnreadByUser(ctx, userID)
}

// MarkRead marks a single notification as read. Only its addressee may do so.
func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if stored.UserID != userID {
		return e.Wrap("service.notification.MarkRead", e.ErrForbidden)
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every unread notification of the user as read. An empty
// inbox is not an error.
func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"service": "notification",
		"user_id": userID,
	}).Debug("inbox marked read")
	return nil
}
