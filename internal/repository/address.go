package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climaticrisks/climatic-risks/internal/models"
	"github.com/climaticrisks/climatic-risks/internal/service"
	"github.com/climaticrisks/climatic-risks/pkg/e"

	"context"
)

type AddressRepository struct {
	db *pgxpool.Pool
}

func NewAddressRepository(db *pgxpool.Pool) service.AddressRepository {
	return &AddressRepository{db: db}
}

// Create inserts a new address row.
func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (logradouro, bairro, cep, soil_type, street_elevation, construction_type, neighborhood_risk, near_waterway)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
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
		return e.WrapError("repository.address.Create", err)
	}
	return nil
}

// GetByID returns a non-deleted address by id.
func (r *AddressRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	address := &models.Address{}
	query := `
		SELECT id, logradouro, bairro, cep, soil_type, street_elevation, construction_type,
		       neighborhood_risk, near_waterway, created_at, updated_at, deleted_at
		FROM addresses
		WHERE id = $1 AND deleted_at IS NULL;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&address.ID,
		&address.Logradouro,
		&address.Bairro,
		&address.CEP,
		&address.SoilType,
		&address.StreetElevation,
		&address.ConstructionType,
		&address.NeighborhoodRisk,
		&address.NearWaterway,
		&address.CreatedAt,
		&address.UpdatedAt,
		&address.DeletedAt,
	)
	if err != nil {
		return nil, e.WrapError("repository.address.GetByID", err)
	}
	return address, nil
}

func (r *AddressRepository) List(ctx context.Context) ([]*models.Address, error) {
	query := `
		SELECT id, logradouro, bairro, cep, soil_type, street_elevation, construction_type,
		       neighborhood_risk, near_waterway, created_at, updated_at, deleted_at
		FROM addresses
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, e.WrapError("repository.address.List", err)
	}
	defer rows.Close()

	addresses := make([]*models.Address, 0)
	for rows.Next() {
		address := &models.Address{}
		err := rows.Scan(
			&address.ID,
			&address.Logradouro,
			&address.Bairro,
			&address.CEP,
			&address.SoilType,
			&address.StreetElevation,
			&address.ConstructionType,
			&address.NeighborhoodRisk,
			&address.NearWaterway,
			&address.CreatedAt,
			&address.UpdatedAt,
			&address.DeletedAt,
		)
		if err != nil {
			return nil, e.WrapError("repository.address.List scan", err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError("repository.address.List rows", err)
	}
	return addresses, nil
}

// Update rewrites the mutable attributes of an address. Identity is immutable.
func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	query := `
		UPDATE addresses SET
			logradouro = $1,
			bairro = $2,
			cep = $3,
			soil_type = $4,
			street_elevation = $5,
			construction_type = $6,
			neighborhood_risk = $7,
			near_waterway = $8,
			updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		address.Logradouro,
		address.Bairro,
		address.CEP,
		string(address.SoilType),
		string(address.StreetElevation),
		string(address.ConstructionType),
		string(address.NeighborhoodRisk),
		address.NearWaterway,
		address.ID,
	)
	if err != nil {
		return e.WrapError("repository.address.Update", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.address.Update", e.ErrNotFound)
	}
	return nil
}

func (r *AddressRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE addresses SET
			deleted_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return e.WrapError("repository.address.SoftDelete", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return e.Wrap("repository.address.SoftDelete", e.ErrNotFound)
	}
	return nil
}

// FindResidentsByNeighborhood returns the ids of every non-deleted user whose
// registered address sits in the named neighborhood. The match is exact but
// case-insensitive.
func (r *AddressRepository) FindResidentsByNeighborhood(ctx context.Context, bairro string) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT u.id
		FROM users u
		INNER JOIN addresses a ON u.address_id = a.id
		WHERE UPPER(a.bairro) = UPPER($1) AND u.deleted_at IS NULL AND a.deleted_at IS NULL;
	`
	rows, err := r.db.Query(ctx, query, bairro)
	if err != nil {
		return nil, e.WrapError("repository.address.FindResidentsByNeighborhood", err)
	}
	defer rows.Close()

	userIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, e.WrapError("repository.address.FindResidentsByNeighborhood scan", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError("repository.address.FindResidentsByNeighborhood rows", err)
	}
	return userIDs, nil
}
