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

type VerificationRepository struct {
	db *pgxpool.Pool
}

func NewVerificationRepository(db *pgxpool.Pool) service.VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, verification *models.Verification) error {
	query := `
		INSERT INTO verifications (user_id, flood_id, landslide_id, confirmed)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		verification.UserID,
		verification.FloodID,
		verification.LandslideID,
		verification.Confirmed,
	).Scan(&verification.ID, &verification.CreatedAt, &verification.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.verification.Create", err)
	}
	return nil
}

func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Verification, error) {
	query := `
		SELECT id, user_id, flood_id, landslide_id, confirmed, created_at, updated_at, deleted_at
		FROM verifications
		WHERE id = $1 AND deleted_at IS NULL;
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id), "repository.verification.GetByID")
}

func (r *VerificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Verification, error) {
	return r.list(ctx, "user_id", userID, "repository.verification.ListByUser")
}

func (r *VerificationRepository) ListByFlood(ctx context.Context, floodID uuid.UUID) ([]*models.Verification, error) {
	return r.list(ctx, "flood_id", floodID, "repository.verification.ListByFlood")
}

func (r *VerificationRepository) ListByLandslide(ctx context.Context, landslideID uuid.UUID) ([]*models.Verification, error) {
	return r.list(ctx, "landslide_id", landslideID, "repository.verification.ListByLandslide")
}

// HasVerified reports whether the user already verified the referenced
// incident. Exactly one of floodID and landslideID is expected to be set; the
// caller enforces that before reaching storage.
func (r *VerificationRepository) HasVerified(ctx context.Context, userID uuid.UUID, floodID, landslideID *uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*) FROM verifications
		WHERE user_id = $1
		AND ((flood_id = $2 AND $2 IS NOT NULL) OR (landslide_id = $3 AND $3 IS NOT NULL))
		AND deleted_at IS NULL;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, userID, floodID, landslideID).Scan(&count); err != nil {
		return false, e.WrapError("repository.verification.HasVerified", err)
	}
	return count > 0, nil
}

func (r *VerificationRepository) StatsByFlood(ctx context.Context, floodID uuid.UUID) (*models.VerificationStats, error) {
	return r.stats(ctx, "flood_id", floodID, "repository.verification.StatsByFlood")
}

func (r *VerificationRepository) StatsByLandslide(ctx context.Context, landslideID uuid.UUID) (*models.VerificationStats, error) {
	return r.stats(ctx, "landslide_id", landslideID, "repository.verification.StatsByLandslide")
}

// Update rewrites only the confirmation flag.
func (r *VerificationRepository) Update(ctx context.Context, verification *models.Verification) error {
	query := `
		UPDATE verifications SET
			confirmed = $1,
			updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, verification.Confirmed, verification.ID)
	if err != nil {
		return e.WrapError("repository.verification.Update", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.verification.Update", e.ErrNotFound)
	}
	return nil
}

func (r *VerificationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE verifications SET
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.verification.SoftDelete", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.verification.SoftDelete", e.ErrNotFound)
	}
	return nil
}

func (r *VerificationRepository) list(ctx context.Context, column string, id uuid.UUID, op string) ([]*models.Verification, error) {
	query := `
		SELECT id, user_id, flood_id, landslide_id, confirmed, created_at, updated_at, deleted_at
		FROM verifications
		WHERE ` + column + ` = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, e.WrapError(op, err)
	}
	defer rows.Close()

	verifications := make([]*models.Verification, 0)
	for rows.Next() {
		verification := &models.Verification{}
		err := rows.Scan(
			&verification.ID,
			&verification.UserID,
			&verification.FloodID,
			&verification.LandslideID,
			&verification.Confirmed,
			&verification.CreatedAt,
			&verification.UpdatedAt,
			&verification.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(op+" scan", err)
		}
		verifications = append(verifications, verification)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(op+" rows", err)
	}
	return verifications, nil
}

// stats aggregates the raw counts in SQL so all of them come from one round
// trip. The percent is left for the service to derive.
func (r *VerificationRepository) stats(ctx context.Context, column string, id uuid.UUID, op string) (*models.VerificationStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN confirmed THEN 1 ELSE 0 END), 0) AS confirmed,
			COALESCE(SUM(CASE WHEN confirmed THEN 0 ELSE 1 END), 0) AS denied
		FROM verifications
		WHERE ` + column + ` = $1 AND deleted_at IS NULL;
	`
	stats := &models.VerificationStats{}
	err := r.db.QueryRow(ctx, query, id).Scan(&stats.Total, &stats.Confirmed, &stats.Denied)
	if err != nil {
		return nil, e.WrapError(op, err)
	}
	return stats, nil
}

func (r *VerificationRepository) scanOne(row pgx.Row, op string) (*models.Verification, error) {
	verification := &models.Verification{}
	err := row.Scan(
		&verification.ID,
		&verification.UserID,
		&verification.FloodID,
		&verification.LandslideID,
		&verification.Confirmed,
		&verification.CreatedAt,
		&verification.UpdatedAt,
		&verification.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError(op, err)
	}
	return verification, nil
}
