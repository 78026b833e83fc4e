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

type AlertRepository struct {
	db *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) service.AlertRepository {
	return &AlertRepository{db: db}
}

// Create persists the alert row only. Notification fan-out is the service's
// responsibility and deliberately runs outside this write.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	query := `
		INSERT INTO alerts (title, description, level, affected_neighborhoods, starts_at, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		alert.Title,
		alert.Description,
		string(alert.Level),
		alert.AffectedNeighborhoods,
		alert.StartsAt,
		alert.Active,
	).Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.alert.Create", err)
	}
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Alert, error) {
	query := `
		SELECT id, title, description, level, affected_neighborhoods, starts_at, active,
		       created_at, updated_at, deleted_at
		FROM alerts
		WHERE id = $1 AND deleted_at IS NULL;
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id), "repository.alert.GetByID")
}

func (r *AlertRepository) ListAll(ctx context.Context) ([]*models.Alert, error) {
	query := `
		SELECT id, title, description, level, affected_neighborhoods, starts_at, active,
		       created_at, updated_at, deleted_at
		FROM alerts
		WHERE deleted_at IS NULL
		ORDER BY starts_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.alert.ListAll", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.alert.ListAll")
}

func (r *AlertRepository) ListActive(ctx context.Context) ([]*models.Alert, error) {
	query := `
		SELECT id, title, description, level, affected_neighborhoods, starts_at, active,
		       created_at, updated_at, deleted_at
		FROM alerts
		WHERE active = TRUE AND deleted_at IS NULL
		ORDER BY starts_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.alert.ListActive", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.alert.ListActive")
}

func (r *AlertRepository) ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.Alert, error) {
	query := `
		SELECT id, title, description, level, affected_neighborhoods, starts_at, active,
		       created_at, updated_at, deleted_at
		FROM alerts
		WHERE level = $1 AND active = TRUE AND deleted_at IS NULL
		ORDER BY starts_at DESC;
	`
	rows, err := r.db.Query(ctx, query, string(level))
	if err != nil {
		return nil, e.WrapError("repository.alert.ListByLevel", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.alert.ListByLevel")
}

func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	query := `
		UPDATE alerts SET
			title = $1,
			description = $2,
			level = $3,
			affected_neighborhoods = $4,
			starts_at = $5,
			active = $6,
			updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		alert.Title,
		alert.Description,
		string(alert.Level),
		alert.AffectedNeighborhoods,
		alert.StartsAt,
		alert.Active,
		alert.ID,
	)
	if err != nil {
		return e.WrapError("repository.alert.Update", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.alert.Update", e.ErrNotFound)
	}
	return nil
}

// Deactivate flips the active flag without touching anything else.
func (r *AlertRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE alerts SET
			active = FALSE,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.alert.Deactivate", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.alert.Deactivate", e.ErrNotFound)
	}
	return nil
}

func (r *AlertRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE alerts SET
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.alert.SoftDelete", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.alert.SoftDelete", e.ErrNotFound)
	}
	return nil
}

func (r *AlertRepository) scanOne(row pgx.Row, op string) (*models.Alert, error) {
	alert := &models.Alert{}
	err := row.Scan(
		&alert.ID,
		&alert.Title,
		&alert.Description,
		&alert.Level,
		&alert.AffectedNeighborhoods,
		&alert.StartsAt,
		&alert.Active,
		&alert.CreatedAt,
		&alert.UpdatedAt,
		&alert.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError(op, err)
	}
	return alert, nil
}

func (r *AlertRepository) scanMany(rows pgx.Rows, op string) ([]*models.Alert, error) {
	alerts := make([]*models.Alert, 0)
	for rows.Next() {
		alert := &models.Alert{}
		err := rows.Scan(
			&alert.ID,
			&alert.Title,
			&alert.Description,
			&alert.Level,
			&alert.AffectedNeighborhoods,
			&alert.StartsAt,
			&alert.Active,
			&alert.CreatedAt,
			&alert.UpdatedAt,
			&alert.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(op+" scan", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(op+" rows", err)
	}
	return alerts, nil
}
