package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

// IncidentRepository serves one incident log. Floods and landslides share the
// row shape but live in separate tables, so the same implementation is
// instantiated once per table.
type IncidentRepository struct {
	db    *pgxpool.Pool
	table string
}

func NewFloodRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db, table: "floods"}
}

func NewLandslideRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db, table: "landslides"}
}

func (r *IncidentRepository) op(name string) string {
	return fmt.Sprintf("repository.%s.%s", r.table, name)
}

func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, address_id, description, occurred_at, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;
	`, r.table)
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.AddressID,
		incident.Description,
		incident.OccurredAt,
		incident.Active,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return e.WrapError(r.op("Create"), err)
	}
	return nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	query := fmt.Sprintf(`
		SELECT id, user_id, address_id, description, occurred_at, active,
		       created_at, updated_at, deleted_at
		FROM %s
		WHERE id = $1 AND deleted_at IS NULL;
	`, r.table)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.UserID,
		&incident.AddressID,
		&incident.Description,
		&incident.OccurredAt,
		&incident.Active,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError(r.op("GetByID"), err)
	}
	return incident, nil
}

func (r *IncidentRepository) ListAll(ctx context.Context) ([]*models.Incident, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, address_id, description, occurred_at, active,
		       created_at, updated_at, deleted_at
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY occurred_at DESC;
	`, r.table)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError(r.op("ListAll"), err)
	}
	defer rows.Close()
	return r.scanIncidents(rows)
}

func (r *IncidentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Incident, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, address_id, description, occurred_at, active,
		       created_at, updated_at, deleted_at
		FROM %s
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY occurred_at DESC;
	`, r.table)
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, e.WrapError(r.op("ListByUser"), err)
	}
	defer rows.Close()
	return r.scanIncidents(rows)
}

func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			description = $1,
			occurred_at = $2,
			active = $3,
			updated_at = NOW()
		WHERE id = $4 AND deleted_at IS NULL;
	`, r.table)
	cmdTag, err := r.db.Exec(ctx, query,
		incident.Description,
		incident.OccurredAt,
		incident.Active,
		incident.ID,
	)
	if err != nil {
		return e.WrapError(r.op("Update"), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap(r.op("Update"), e.ErrNotFound)
	}
	return nil
}

func (r *IncidentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`, r.table)
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError(r.op("SoftDelete"), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap(r.op("SoftDelete"), e.ErrNotFound)
	}
	return nil
}

// CountActiveByAddress counts the non-deleted incidents of this kind at an
// address. The risk aggregator sums this across both logs.
func (r *IncidentRepository) CountActiveByAddress(ctx context.Context, addressID uuid.UUID) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE address_id = $1 AND deleted_at IS NULL;
	`, r.table)
	var count int
	if err := r.db.QueryRow(ctx, query, addressID).Scan(&count); err != nil {
		return 0, e.WrapError(r.op("CountActiveByAddress"), err)
	}
	return count, nil
}

// DistinctAddressIDs returns every address that appears in this log.
func (r *IncidentRepository) DistinctAddressIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT address_id FROM %s WHERE deleted_at IS NULL;
	`, r.table)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError(r.op("DistinctAddressIDs"), err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, e.WrapError(r.op("DistinctAddressIDs scan"), err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(r.op("DistinctAddressIDs rows"), err)
	}
	return ids, nil
}

func (r *IncidentRepository) scanIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.UserID,
			&incident.AddressID,
			&incident.Description,
			&incident.OccurredAt,
			&incident.Active,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(r.op("scan"), err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(r.op("rows"), err)
	}
	return incidents, nil
}
