package seeds

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var fixedNow = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

func TestRosterVocabulary(t *testing.T) {
	roster := Roster()
	require.Len(t, roster, 10)

	codes := map[string]bool{}
	for _, c := range roster {
		assert.True(t, c.Sector.Valid(), c.Code)
		assert.True(t, c.Area.Valid(), c.Code)
		assert.False(t, codes[c.Code], "duplicate code %s", c.Code)
		codes[c.Code] = true
	}
	assert.Equal(t, "GloveMax Industries", roster[0].Name)
	assert.Equal(t, "MFP010", roster[9].Code)
}

func TestGenerateVolumes(t *testing.T) {
	customers := []volume.Customer{{ID: 7}}
	records := GenerateVolumes(customers, fixedNow, rand.New(rand.NewPCG(1, 2)))

	require.Len(t, records, 12*3+3*2)

	first, last := records[0], records[len(records)-1]
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 12, first.Month)
	assert.Equal(t, volume.TypeForecast, last.Type)
	assert.Equal(t, 2026, last.Year, "forecast wraps into next year")
	assert.Equal(t, 2, last.Month)

	for i := 0; i < 36; i += 3 {
		actual, budget, variance := records[i], records[i+1], records[i+2]
		assert.Equal(t, volume.TypeActual, actual.Type)
		assert.True(t, actual.Volume.GreaterThanOrEqual(decimal.NewFromInt(1000)))
		assert.True(t, actual.Volume.LessThan(decimal.NewFromInt(6000)))

		low := actual.Volume.Mul(decimal.NewFromFloat(0.9)).Sub(decimal.NewFromInt(1))
		high := actual.Volume.Mul(decimal.NewFromFloat(1.2))
		assert.True(t, budget.Volume.GreaterThanOrEqual(low), "budget %s actual %s", budget.Volume, actual.Volume)
		assert.True(t, budget.Volume.LessThan(high))

		diff := actual.Volume.Sub(budget.Volume)
		assert.True(t, variance.Volume.LessThanOrEqual(diff))
		assert.True(t, variance.Volume.GreaterThanOrEqual(diff.Sub(decimal.NewFromInt(1))))
	}

	again := GenerateVolumes(customers, fixedNow, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, records, again)
}

type memCustomers struct {
	next int64
	byID map[int64]volume.Customer
}

func (m *memCustomers) Upsert(_ context.Context, c *volume.Customer) error {
	for id, existing := range m.byID {
		if existing.Code == c.Code {
			c.ID = id
			m.byID[id] = *c
			return nil
		}
	}
	m.next++
	c.ID = m.next
	m.byID[c.ID] = *c
	return nil
}

func (m *memCustomers) GetByID(context.Context, int64) (*volume.Customer, error) {
	return nil, errors.ErrCustomerNotFound
}

func (m *memCustomers) List(context.Context) ([]volume.Customer, error) { return nil, nil }

type memRecords struct {
	rows map[[4]any]decimal.Decimal
	fail bool
}

func (m *memRecords) Upsert(_ context.Context, r *volume.Record) error {
	if m.fail {
		return errors.ErrUnavailable
	}
	m.rows[[4]any{r.CustomerID, r.Type, r.Month, r.Year}] = r.Volume
	return nil
}

func (m *memRecords) List(context.Context, []int64) ([]volume.Record, error)   { return nil, nil }
func (m *memRecords) ListForYear(context.Context, int) ([]volume.Record, error) { return nil, nil }

func TestSeederRunIsIdempotent(t *testing.T) {
	customers := &memCustomers{byID: map[int64]volume.Customer{}}
	records := &memRecords{rows: map[[4]any]decimal.Decimal{}}
	s := New(customers, records)

	res, err := s.Run(context.Background(), fixedNow, 42)
	require.NoError(t, err)
	assert.Equal(t, Result{Customers: 10, Records: 420}, res)
	assert.Len(t, records.rows, 420)

	_, err = s.Run(context.Background(), fixedNow, 42)
	require.NoError(t, err)
	assert.Len(t, customers.byID, 10)
	assert.Len(t, records.rows, 420)

	records.fail = true
	_, err = s.Run(context.Background(), fixedNow, 42)
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
}
