package summary

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var fixedNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

var roster = []volume.Customer{
	{ID: 1, Name: "GloveMax Industries", Area: volume.AreaJHR, Sector: volume.SectorRubberGloves, Segment: volume.SegmentElite},
	{ID: 2, Name: "TropicChem Products", Area: volume.AreaPRK, Sector: volume.SectorOleochemical, Segment: volume.SegmentPremium},
	{ID: 4, Name: "MediShield Gloves", Area: volume.AreaPKP, Sector: volume.SectorRubberGloves, Segment: volume.SegmentPremium},
}

func rec(customer int64, typ volume.Type, year, month int, v int64) volume.Record {
	return volume.Record{CustomerID: customer, Type: typ, Year: year, Month: month, Volume: decimal.NewFromInt(v)}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("")
	require.NoError(t, err)
	assert.Equal(t, DimensionSector, d)

	d, err = ParseDimension("area")
	require.NoError(t, err)
	assert.Equal(t, DimensionArea, d)

	_, err = ParseDimension("planet")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestAggregateBySector(t *testing.T) {
	records := []volume.Record{
		rec(1, volume.TypeActual, 2025, 1, 100),
		rec(4, volume.TypeActual, 2025, 1, 50),
		rec(4, volume.TypeBudget, 2025, 1, 70),
		rec(2, volume.TypeForecast, 2025, 6, 30),
		rec(2, volume.TypeVariance, 2025, 1, -5),
		rec(99, volume.TypeActual, 2025, 1, 1000),
	}

	groups := Aggregate(records, roster, DimensionSector)

	require.Len(t, groups, len(volume.Sectors))
	assert.Equal(t, "Rubber gloves", groups[0].Key)
	assert.True(t, groups[0].Actual.Equal(dec(150)))
	assert.True(t, groups[0].Budget.Equal(dec(70)))
	assert.Equal(t, "Oleochemical", groups[1].Key)
	assert.True(t, groups[1].Forecast.Equal(dec(30)))
	assert.True(t, groups[1].Variance.Equal(dec(-5)))
	assert.True(t, groups[5].Actual.IsZero(), "empty sectors stay present")
}

func TestAggregateBySegmentAppendsUnknownValues(t *testing.T) {
	customers := append([]volume.Customer{{ID: 7, Segment: "Legacy"}}, roster...)
	groups := Aggregate([]volume.Record{rec(7, volume.TypeActual, 2025, 1, 5)}, customers, DimensionSegment)

	require.Len(t, groups, 4)
	assert.Equal(t, []string{"Elite", "Premium", "Preferred", "Legacy"},
		[]string{groups[0].Key, groups[1].Key, groups[2].Key, groups[3].Key})
	assert.True(t, groups[3].Actual.Equal(dec(5)))
}

func TestPeriodTotals(t *testing.T) {
	records := []volume.Record{
		rec(1, volume.TypeActual, 2025, 1, 100),
		rec(1, volume.TypeBudget, 2025, 1, 120),
		rec(1, volume.TypeActual, 2025, 5, 40),
		rec(1, volume.TypeBudget, 2025, 5, 30),
		rec(1, volume.TypeVariance, 2025, 5, 999),
		rec(1, volume.TypeForecast, 2025, 6, 77),
		rec(1, volume.TypeActual, 2024, 12, 500),
	}

	ytd := YTDTotals(records, fixedNow)
	assert.True(t, ytd.Actual.Equal(dec(140)))
	assert.True(t, ytd.Budget.Equal(dec(150)))
	assert.True(t, ytd.Forecast.IsZero())
	assert.True(t, ytd.Variance.Equal(dec(-10)))

	month := CurrentMonthTotals(records, fixedNow)
	assert.True(t, month.Actual.Equal(dec(40)))
	assert.True(t, month.Variance.Equal(dec(10)))
}

type customerStore struct{ customers []volume.Customer }

func (s customerStore) Upsert(context.Context, *volume.Customer) error { return nil }
func (s customerStore) GetByID(context.Context, int64) (*volume.Customer, error) {
	return nil, errors.ErrCustomerNotFound
}
func (s customerStore) List(context.Context) ([]volume.Customer, error) { return s.customers, nil }

type recordStore struct {
	records []volume.Record
	err     error
}

func (s recordStore) Upsert(context.Context, *volume.Record) error { return nil }
func (s recordStore) List(context.Context, []int64) ([]volume.Record, error) {
	return s.records, s.err
}
func (s recordStore) ListForYear(context.Context, int) ([]volume.Record, error) {
	return s.records, s.err
}

func TestServiceSummary(t *testing.T) {
	svc := NewService(customerStore{roster}, recordStore{records: []volume.Record{rec(1, volume.TypeActual, 2025, 5, 10)}},
		func() time.Time { return fixedNow })

	out, err := svc.Summary(context.Background(), DimensionArea)
	require.NoError(t, err)
	assert.Equal(t, DimensionArea, out.Dimension)
	require.Len(t, out.Groups, len(volume.Areas))
	assert.Equal(t, "JHR", out.Groups[3].Key)
	assert.True(t, out.Groups[3].Actual.Equal(dec(10)))
	assert.True(t, out.CurrentMonth.Actual.Equal(dec(10)))

	svc = NewService(customerStore{roster}, recordStore{err: errors.ErrUnavailable}, nil)
	_, err = svc.Summary(context.Background(), DimensionArea)
	assert.True(t, errors.Is(err, errors.ErrUnavailable))
}
