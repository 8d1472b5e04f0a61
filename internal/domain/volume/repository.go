package volume

import "context"

// CustomerRepository defines the interface for customer roster access
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}

// RecordRepository defines the interface for volume record access
type RecordRepository interface {
	Upsert(ctx context.Context, record *Record) error
	// List returns records for the given customers, or every record when ids is empty
	List(ctx context.Context, customerIDs []int64) ([]Record, error)
	ListForYear(ctx context.Context, year int) ([]Record, error)
}
