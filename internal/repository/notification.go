package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) service.NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, priority, read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.Title,
		notification.Message,
		string(notification.Priority),
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.notification.Create", err)
	}
	notification.Read = false
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, priority, read, created_at, updated_at, deleted_at
		FROM notifications
		WHERE id = $1 AND deleted_at IS NULL;
	`
	notification := &models.Notification{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Title,
		&notification.Message,
		&notification.Priority,
		&notification.Read,
		&notification.CreatedAt,
		&notification.UpdatedAt,
		&notification.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError("repository.notification.GetByID", err)
	}
	return notification, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, priority, read, created_at, updated_at, deleted_at
		FROM notifications
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, e.WrapError("repository.notification.ListByUser", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.notification.ListByUser")
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, priority, read, created_at, updated_at, deleted_at
		FROM notifications
		WHERE user_id = $1 AND read = FALSE AND deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, e.WrapError("repository.notification.ListUnreadByUser", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.notification.ListUnreadByUser")
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notifications SET
			read = TRUE,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.notification.MarkRead", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.notification.MarkRead", e.ErrNotFound)
	}
	return nil
}

// MarkAllRead flips every unread notification for the user. Zero affected
// rows is not an error; the operation is idempotent.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE notifications SET
			read = TRUE,
			updated_at = NOW()
		WHERE user_id = $1 AND read = FALSE AND deleted_at IS NULL;
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return e.WrapError("repository.notification.MarkAllRead", err)
	}
	return nil
}

func (r *NotificationRepository) scanMany(rows pgx.Rows, op string) ([]*models.Notification, error) {
	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		notification := &models.Notification{}
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Title,
			&notification.Message,
			&notification.Priority,
			&notification.Read,
			&notification.CreatedAt,
			&notification.UpdatedAt,
			&notification.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(op+" scan", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(op+" rows", err)
	}
	return notifications, nil
}
