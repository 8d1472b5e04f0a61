package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Compile-time check
var _ volume.RecordRepository = (*VolumeRepository)(nil)

const volumeColumns = `id, customer_id, volume_type, month, year, volume`

// VolumeRepository implements volume.RecordRepository using sqlx
type VolumeRepository struct {
	db DBTX
}

// NewVolumeRepository creates a new volume record repository
func NewVolumeRepository(db DBTX) *VolumeRepository {
	return &VolumeRepository{db: db}
}

// Upsert keeps at most one record per (customer, type, month, year)
func (r *VolumeRepository) Upsert(ctx context.Context, rec *volume.Record) error {
	if !rec.Type.Valid() {
		return errors.Wrapf(errors.ErrInvalidInput, "volume type %q", rec.Type)
	}

	query := `
		INSERT INTO volume_records (customer_id, volume_type, month, year, volume)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (customer_id, volume_type, month, year) DO UPDATE SET
			volume = EXCLUDED.volume
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, rec.CustomerID, rec.Type, rec.Month, rec.Year, rec.Volume).
		Scan(&rec.ID)
	return errors.Wrap(err, "upsert volume record")
}

func (r *VolumeRepository) List(ctx context.Context, customerIDs []int64) ([]volume.Record, error) {
	records := []volume.Record{}

	var err error
	if len(customerIDs) == 0 {
		query := `SELECT ` + volumeColumns + ` FROM volume_records ORDER BY customer_id, year, month, volume_type`
		err = r.db.SelectContext(ctx, &records, query)
	} else {
		query := `SELECT ` + volumeColumns + ` FROM volume_records
			WHERE customer_id = ANY($1)
			ORDER BY customer_id, year, month, volume_type`
		err = r.db.SelectContext(ctx, &records, query, pq.Array(customerIDs))
	}
	if err != nil {
		return nil, errors.Wrap(err, "list volume records")
	}

	return records, nil
}

func (r *VolumeRepository) ListForYear(ctx context.Context, year int) ([]volume.Record, error) {
	records := []volume.Record{}

	query := `SELECT ` + volumeColumns + ` FROM volume_records WHERE year = $1 ORDER BY customer_id, month, volume_type`

	if err := r.db.SelectContext(ctx, &records, query, year); err != nil {
		return nil, errors.Wrap(err, "list volume records for year")
	}

	return records, nil
}
