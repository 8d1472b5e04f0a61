package volume

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sector is one of the six industry categories customers are grouped by
type Sector string

const (
	SectorRubberGloves     Sector = "Rubber gloves"
	SectorOleochemical     Sector = "Oleochemical"
	SectorConsumerProducts Sector = "Consumer Products"
	SectorManufacturing    Sector = "Manufacturing"
	SectorFoodBeverage     Sector = "Food & Beverage"
	SectorPharmaceuticals  Sector = "Pharmaceuticals"
)

// Sectors lists the sector vocabulary in canonical order
var Sectors = []Sector{
	SectorRubberGloves,
	SectorOleochemical,
	SectorConsumerProducts,
	SectorManufacturing,
	SectorFoodBeverage,
	SectorPharmaceuticals,
}

func (s Sector) String() string { return string(s) }

// Valid reports whether s belongs to the vocabulary
func (s Sector) Valid() bool {
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// Area is a three-letter region code
type Area string

const (
	AreaPRK Area = "PRK" // Perak
	AreaPKP Area = "PKP" // Penang
	AreaSWP Area = "SWP" // Selangor
	AreaJHR Area = "JHR" // Johor
	AreaMNS Area = "MNS" // Melaka
	AreaPTK Area = "PTK" // Pahang
)

var Areas = []Area{AreaPRK, AreaPKP, AreaSWP, AreaJHR, AreaMNS, AreaPTK}

func (a Area) String() string { return string(a) }

func (a Area) Valid() bool {
	for _, known := range Areas {
		if a == known {
			return true
		}
	}
	return false
}

// Segment is the commercial tier of a customer
type Segment string

const (
	SegmentElite     Segment = "Elite"
	SegmentPremium   Segment = "Premium"
	SegmentPreferred Segment = "Preferred"
)

var Segments = []Segment{SegmentElite, SegmentPremium, SegmentPreferred}

// Type distinguishes the four series recorded per customer and month
type Type string

const (
	TypeActual   Type = "Actual"
	TypeBudget   Type = "Budget"
	TypeForecast Type = "Forecast"
	TypeVariance Type = "Variance"
)

func (t Type) Valid() bool {
	switch t {
	case TypeActual, TypeBudget, TypeForecast, TypeVariance:
		return true
	}
	return false
}

// Customer is a gas buyer in the roster
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"code" json:"customerCode"`
	Name      string    `db:"name" json:"customer"`
	Area      Area      `db:"area" json:"area"`
	Sector    Sector    `db:"sector" json:"sector"`
	Segment   Segment   `db:"segment" json:"segment"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Record is one monthly volume figure in GJ. At most one record exists
// per (customer, type, month, year); duplicates would double-count.
type Record struct {
	ID         int64           `db:"id" json:"id"`
	CustomerID int64           `db:"customer_id" json:"customerId"`
	Type       Type            `db:"volume_type" json:"volumeType"`
	Month      int             `db:"month" json:"month"`
	Year       int             `db:"year" json:"year"`
	Volume     decimal.Decimal `db:"volume" json:"volume"`
}

// Totals is a per-type sum over a set of records
type Totals struct {
	Actual   decimal.Decimal `json:"actual"`
	Budget   decimal.Decimal `json:"budget"`
	Forecast decimal.Decimal `json:"forecast"`
	Variance decimal.Decimal `json:"variance"`
}

// Add accumulates r into the matching series. Unknown types are ignored.
func (t *Totals) Add(r Record) {
	switch r.Type {
	case TypeActual:
		t.Actual = t.Actual.Add(r.Volume)
	case TypeBudget:
		t.Budget = t.Budget.Add(r.Volume)
	case TypeForecast:
		t.Forecast = t.Forecast.Add(r.Volume)
	case TypeVariance:
		t.Variance = t.Variance.Add(r.Volume)
	}
}
