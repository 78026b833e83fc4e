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

type ReportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) service.ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (period, region, total_floods, total_landslides, total_incidents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.Period,
		report.Region,
		report.TotalFloods,
		report.TotalLandslides,
		report.TotalIncidents,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.report.Create", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := `
		SELECT id, period, region, total_floods, total_landslides, total_incidents,
		       created_at, updated_at, deleted_at
		FROM reports
		WHERE id = $1 AND deleted_at IS NULL;
	`
	report := &models.Report{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Period,
		&report.Region,
		&report.TotalFloods,
		&report.TotalLandslides,
		&report.TotalIncidents,
		&report.CreatedAt,
		&report.UpdatedAt,
		&report.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError("repository.report.GetByID", err)
	}
	return report, nil
}

func (r *ReportRepository) ListAll(ctx context.Context) ([]*models.Report, error) {
	query := `
		SELECT id, period, region, total_floods, total_landslides, total_incidents,
		       created_at, updated_at, deleted_at
		FROM reports
		WHERE deleted_at IS NULL
		ORDER BY period DESC, region ASC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.report.ListAll", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.report.ListAll")
}

func (r *ReportRepository) ListByPeriod(ctx context.Context, period string) ([]*models.Report, error) {
	query := `
		SELECT id, period, region, total_floods, total_landslides, total_incidents,
		       created_at, updated_at, deleted_at
		FROM reports
		WHERE period = $1 AND deleted_at IS NULL
		ORDER BY region ASC;
	`
	rows, err := r.db.Query(ctx, query, period)
	if err != nil {
		return nil, e.WrapError("repository.report.ListByPeriod", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.report.ListByPeriod")
}

func (r *ReportRepository) ListByRegion(ctx context.Context, region string) ([]*models.Report, error) {
	query := `
		SELECT id, period, region, total_floods, total_landslides, total_incidents,
		       created_at, updated_at, deleted_at
		FROM reports
		WHERE UPPER(region) = UPPER($1) AND deleted_at IS NULL
		ORDER BY period DESC;
	`
	rows, err := r.db.Query(ctx, query, region)
	if err != nil {
		return nil, e.WrapError("repository.report.ListByRegion", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.report.ListByRegion")
}

// CountIncidents counts non-deleted incidents of one kind within a period
// ("YYYY-MM"). An empty region means city-wide; otherwise incidents are
// joined to addresses and matched on neighborhood, case-insensitively.
func (r *ReportRepository) CountIncidents(ctx context.Context, kind models.IncidentKind, period, region string) (int, error) {
	table := "floods"
	if kind == models.KindLandslide {
		table = "landslides"
	}

	var (
		query string
		args  []any
	)
	if region == "" {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s i
			WHERE i.deleted_at IS NULL
			AND TO_CHAR(i.occurred_at, 'YYYY-MM') = $1;
		`, table)
		args = []any{period}
	} else {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s i
			INNER JOIN addresses a ON i.address_id = a.id
			WHERE UPPER(a.bairro) = UPPER($1)
			AND i.deleted_at IS NULL
			AND a.deleted_at IS NULL
			AND TO_CHAR(i.occurred_at, 'YYYY-MM') = $2;
		`, table)
		args = []any{region, period}
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, e.WrapError("repository.report.CountIncidents", err)
	}
	return count, nil
}

// DistinctNeighborhoods lists every neighborhood that has at least one
// non-deleted address.
func (r *ReportRepository) DistinctNeighborhoods(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT bairro FROM addresses
		WHERE deleted_at IS NULL
		ORDER BY bairro ASC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.report.DistinctNeighborhoods", err)
	}
	defer rows.Close()

	neighborhoods := make([]string, 0)
	for rows.Next() {
		var bairro string
		if err := rows.Scan(&bairro); err != nil {
			return nil, e.WrapError("repository.report.DistinctNeighborhoods scan", err)
		}
		neighborhoods = append(neighborhoods, bairro)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError("repository.report.DistinctNeighborhoods rows", err)
	}
	return neighborhoods, nil
}

func (r *ReportRepository) scanMany(rows pgx.Rows, op string) ([]*models.Report, error) {
	reports := make([]*models.Report, 0)
	for rows.Next() {
		report := &models.Report{}
		err := rows.Scan(
			&report.ID,
			&report.Period,
			&report.Region,
			&report.TotalFloods,
			&report.TotalLandslides,
			&report.TotalIncidents,
			&report.CreatedAt,
			&report.UpdatedAt,
			&report.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(op+" scan", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(op+" rows", err)
	}
	return reports, nil
}
