// Package seeds loads the demo customer roster and a year of synthetic
// volume history into the stores.
package seeds

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

const (
	historyMonths  = 12
	forecastMonths = 3
)

// Roster returns the ten demo customers. IDs are assigned by the store.
func Roster() []volume.Customer {
	return []volume.Customer{
		{Code: "RGJ001", Name: "GloveMax Industries", Area: volume.AreaJHR, Sector: volume.SectorRubberGloves, Segment: volume.SegmentElite},
		{Code: "OCP002", Name: "TropicChem Products", Area: volume.AreaPRK, Sector: volume.SectorOleochemical, Segment: volume.SegmentPremium},
		{Code: "CPM003", Name: "EssentialGoods Co", Area: volume.AreaSWP, Sector: volume.SectorConsumerProducts, Segment: volume.SegmentPreferred},
		{Code: "RGP004", Name: "MediShield Gloves", Area: volume.AreaPKP, Sector: volume.SectorRubberGloves, Segment: volume.SegmentPremium},
		{Code: "MFJ005", Name: "PrecisionTech Industries", Area: volume.AreaJHR, Sector: volume.SectorManufacturing, Segment: volume.SegmentElite},
		{Code: "OCP006", Name: "NaturalChem Solutions", Area: volume.AreaPRK, Sector: volume.SectorOleochemical, Segment: volume.SegmentPreferred},
		{Code: "CPM007", Name: "HomeEssentials Ltd", Area: volume.AreaMNS, Sector: volume.SectorConsumerProducts, Segment: volume.SegmentPremium},
		{Code: "FBP008", Name: "TastyTreats Food Co", Area: volume.AreaPTK, Sector: volume.SectorFoodBeverage, Segment: volume.SegmentPreferred},
		{Code: "PHJ009", Name: "VitalCare Pharma", Area: volume.AreaJHR, Sector: volume.SectorPharmaceuticals, Segment: volume.SegmentElite},
		{Code: "MFP010", Name: "InnovateX Manufacturing", Area: volume.AreaPKP, Sector: volume.SectorManufacturing, Segment: volume.SegmentPremium},
	}
}

// GenerateVolumes produces, per customer, twelve months of actual, budget
// and variance ending at now's month, then three months of budget and
// forecast. Budgets sit between 90% and 120% of actuals; forecasts between
// 90% and 120% of budgets. The output only depends on rng's state.
func GenerateVolumes(customers []volume.Customer, now time.Time, rng *rand.Rand) []volume.Record {
	out := make([]volume.Record, 0, len(customers)*(historyMonths*3+forecastMonths*2))
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	record := func(c volume.Customer, t volume.Type, month time.Time, v float64) volume.Record {
		return volume.Record{
			CustomerID: c.ID,
			Type:       t,
			Month:      int(month.Month()),
			Year:       month.Year(),
			Volume:     decimal.NewFromFloat(math.Floor(v)),
		}
	}

	for _, c := range customers {
		for offset := -(historyMonths - 1); offset <= 0; offset++ {
			month := current.AddDate(0, offset, 0)
			actual := math.Floor(1000 + rng.Float64()*5000)
			budget := actual * (0.9 + rng.Float64()*0.3)
			out = append(out,
				record(c, volume.TypeActual, month, actual),
				record(c, volume.TypeBudget, month, budget),
				record(c, volume.TypeVariance, month, actual-budget),
			)
		}
		for offset := 1; offset <= forecastMonths; offset++ {
			month := current.AddDate(0, offset, 0)
			budget := math.Floor(1000 + rng.Float64()*5000)
			forecast := budget * (0.9 + rng.Float64()*0.3)
			out = append(out,
				record(c, volume.TypeBudget, month, budget),
				record(c, volume.TypeForecast, month, forecast),
			)
		}
	}

	return out
}

// NewRand returns the generator Run uses for seed
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Result counts what Run stored
type Result struct {
	Customers int
	Records   int
}

// Seeder writes the roster and generated volumes through the repositories
type Seeder struct {
	customers volume.CustomerRepository
	records   volume.RecordRepository
	log       *logger.Logger
}

func New(customers volume.CustomerRepository, records volume.RecordRepository) *Seeder {
	return &Seeder{
		customers: customers,
		records:   records,
		log:       logger.Get().With("component", "seeder"),
	}
}

// Run upserts the roster and its volume history. Re-running with the same
// seed and month rewrites identical values.
func (s *Seeder) Run(ctx context.Context, now time.Time, seed uint64) (Result, error) {
	roster := Roster()
	for i := range roster {
		if err := s.customers.Upsert(ctx, &roster[i]); err != nil {
			return Result{}, errors.Wrapf(err, "seed customer %s", roster[i].Code)
		}
	}
	s.log.Infow("Seeded customers", "count", len(roster))

	records := GenerateVolumes(roster, now, NewRand(seed))
	for i := range records {
		if err := s.records.Upsert(ctx, &records[i]); err != nil {
			return Result{Customers: len(roster), Records: i}, errors.Wrap(err, "seed volume record")
		}
	}
	s.log.Infow("Seeded volume records", "count", len(records))

	return Result{Customers: len(roster), Records: len(records)}, nil
}
