package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) service.UserRepository {
	return &UserRepository{db: db}
}

// CreateWithAddress inserts the embedded address and the user inside a single
// transaction. A failure on either insert rolls back both.
func (r *UserRepository) CreateWithAddress(ctx context.Context, user *models.User, address *models.Address) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return e.WrapError("repository.user.CreateWithAddress begin", err)
	}
	defer tx.Rollback(ctx)

	addressQuery := `
		INSERT INTO addresses (logradouro, bairro, cep, soil_type, street_elevation, construction_type, neighborhood_risk, near_waterway)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	err = tx.QueryRow(ctx, addressQuery,
		address.Logradouro,
		address.Bairro,
		address.CEP,
		string(address.SoilType),
		string(address.StreetElevation),
		string(address.ConstructionType),
		string(address.NeighborhoodRisk),
		address.NearWaterway,
	).Scan(&address.ID, &address.CreatedAt, &address.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.user.CreateWithAddress address", err)
	}

	userQuery := `
		INSERT INTO users (name, email, password_hash, phone, address_id, is_civil_defense)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`
	err = tx.QueryRow(ctx, userQuery,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		address.ID,
		user.IsCivilDefense,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return e.WrapError("repository.user.CreateWithAddress user", err)
	}
	user.AddressID = address.ID

	if err := tx.Commit(ctx); err != nil {
		return e.WrapError("repository.user.CreateWithAddress commit", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, phone, address_id, is_civil_defense,
		       created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.AddressID,
		&user.IsCivilDefense,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError("repository.user.GetByID", err)
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, name, email, password_hash, phone, address_id, is_civil_defense,
		       created_at, updated_at, deleted_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL;
	`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.AddressID,
		&user.IsCivilDefense,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError("repository.user.GetByEmail", err)
	}
	return user, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `
		SELECT COUNT(*) FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL;
	`
	var count int
	if err := r.db.QueryRow(ctx, query, email).Scan(&count); err != nil {
		return false, e.WrapError("repository.user.ExistsByEmail", err)
	}
	return count > 0, nil
}
