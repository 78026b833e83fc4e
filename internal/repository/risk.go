package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

type RiskRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewRiskRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.RiskRepository {
	return &RiskRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (r *RiskRepository) Insert(ctx context.Context, record *models.RiskRecord) error {
	query := `
		INSERT INTO risk_records (address_id, level, total_incidents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		record.AddressID,
		string(record.Level),
		record.TotalIncidents,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.risk.Insert", err)
	}
	return nil
}

func (r *RiskRepository) Update(ctx context.Context, record *models.RiskRecord) error {
	query := `
		UPDATE risk_records SET
			level = $1,
			total_incidents = $2,
			updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		string(record.Level),
		record.TotalIncidents,
		record.ID,
	).Scan(&record.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.risk.Update", err)
	}
	return nil
}

func (r *RiskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RiskRecord, error) {
	query := `
		SELECT id, address_id, level, total_incidents, created_at, updated_at, deleted_at
		FROM risk_records
		WHERE id = $1 AND deleted_at IS NULL;
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id), "repository.risk.GetByID")
}

// GetByAddress returns the single live risk record for an address. Newest
// first guards against historical duplicates left behind by older versions of
// the upsert.
func (r *RiskRepository) GetByAddress(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error) {
	query := `
		SELECT id, address_id, level, total_incidents, created_at, updated_at, deleted_at
		FROM risk_records
		WHERE address_id = $1 AND deleted_at IS NULL
		ORDER BY updated_at DESC
		LIMIT 1;
	`
	return r.scanOne(r.db.QueryRow(ctx, query, addressID), "repository.risk.GetByAddress")
}

func (r *RiskRepository) ListAll(ctx context.Context) ([]*models.RiskRecord, error) {
	query := `
		SELECT id, address_id, level, total_incidents, created_at, updated_at, deleted_at
		FROM risk_records
		WHERE deleted_at IS NULL
		ORDER BY total_incidents DESC, updated_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.risk.ListAll", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.risk.ListAll")
}

func (r *RiskRepository) ListByLevel(ctx context.Context, level models.RiskLevel) ([]*models.RiskRecord, error) {
	query := `
		SELECT id, address_id, level, total_incidents, created_at, updated_at, deleted_at
		FROM risk_records
		WHERE level = $1 AND deleted_at IS NULL
		ORDER BY total_incidents DESC;
	`
	rows, err := r.db.Query(ctx, query, string(level))
	if err != nil {
		return nil, e.WrapError("repository.risk.ListByLevel", err)
	}
	defer rows.Close()
	return r.scanMany(rows, "repository.risk.ListByLevel")
}

func (r *RiskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE risk_records SET
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.risk.SoftDelete", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.risk.SoftDelete", e.ErrNotFound)
	}
	return nil
}

func riskCacheKey(addressID uuid.UUID) string {
	return fmt.Sprintf("risk:%s", addressID.String())
}

// GetCached tries to fetch the risk record for an address from Redis. A cache
// miss returns (nil, nil).
func (r *RiskRepository) GetCached(ctx context.Context, addressID uuid.UUID) (*models.RiskRecord, error) {
	val, err := r.redisClient.Get(ctx, riskCacheKey(addressID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get risk record from cache: %w", err)
	}

	record := &models.RiskRecord{}
	if err := json.Unmarshal(val, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal risk record from cache: %w", err)
	}
	return record, nil
}

func (r *RiskRepository) SetCache(ctx context.Context, record *models.RiskRecord) error {
	val, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal risk record for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, riskCacheKey(record.AddressID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set risk record in cache: %w", err)
	}
	return nil
}

func (r *RiskRepository) InvalidateCache(ctx context.Context, addressID uuid.UUID) error {
	if err := r.redisClient.Del(ctx, riskCacheKey(addressID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate risk record cache: %w", err)
	}
	return nil
}

func (r *RiskRepository) scanOne(row pgx.Row, op string) (*models.RiskRecord, error) {
	record := &models.RiskRecord{}
	err := row.Scan(
		&record.ID,
		&record.AddressID,
		&record.Level,
		&record.TotalIncidents,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError(op, err)
	}
	return record, nil
}

func (r *RiskRepository) scanMany(rows pgx.Rows, op string) ([]*models.RiskRecord, error) {
	records := make([]*models.RiskRecord, 0)
	for rows.Next() {
		record := &models.RiskRecord{}
		err := rows.Scan(
			&record.ID,
			&record.AddressID,
			&record.Level,
			&record.TotalIncidents,
			&record.CreatedAt,
			&record.UpdatedAt,
			&record.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError(op+" scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(op+" rows", err)
	}
	return records, nil
}
