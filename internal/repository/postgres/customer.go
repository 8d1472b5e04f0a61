package postgres

import (
	"context"
	"database/sql"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Compile-time check
var _ volume.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository implements volume.CustomerRepository using sqlx
type CustomerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Upsert inserts a customer or updates the one with the same code, then
// fills in the stored ID and creation time.
func (r *CustomerRepository) Upsert(ctx context.Context, c *volume.Customer) error {
	query := `
		INSERT INTO customers (code, name, area, sector, segment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			area = EXCLUDED.area,
			sector = EXCLUDED.sector,
			segment = EXCLUDED.segment
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, c.Code, c.Name, c.Area, c.Sector, c.Segment).
		Scan(&c.ID, &c.CreatedAt)
	return errors.Wrapf(err, "upsert customer %s", c.Code)
}

// GetByID returns errors.ErrCustomerNotFound for unknown IDs
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*volume.Customer, error) {
	var c volume.Customer

	query := `SELECT id, code, name, area, sector, segment, created_at FROM customers WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}

	return &c, nil
}

// List returns the roster ordered by ID
func (r *CustomerRepository) List(ctx context.Context) ([]volume.Customer, error) {
	customers := []volume.Customer{}

	query := `SELECT id, code, name, area, sector, segment, created_at FROM customers ORDER BY id`

	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, errors.Wrap(err, "list customers")
	}

	return customers, nil
}
