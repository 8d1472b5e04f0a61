package summary

import (
	"context"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Dimension is a customer attribute volumes can be grouped by
type Dimension string

const (
	DimensionArea    Dimension = "area"
	DimensionSector  Dimension = "sector"
	DimensionSegment Dimension = "segment"
)

// ParseDimension validates a dimension name. Empty means sector.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case "":
		return DimensionSector, nil
	case DimensionArea, DimensionSector, DimensionSegment:
		return Dimension(s), nil
	}
	return "", errors.Wrapf(errors.ErrInvalidInput, "unknown dimension %q", s)
}

// Group is the per-type volume sum of one dimension value
type Group struct {
	Key string `json:"key"`
	volume.Totals
}

// Summary is the dashboard view of the volume book
type Summary struct {
	Dimension    Dimension     `json:"dimension"`
	Groups       []Group       `json:"groups"`
	YTD          volume.Totals `json:"ytd"`
	CurrentMonth volume.Totals `json:"currentMonth"`
}

func vocabulary(dim Dimension) []string {
	var out []string
	switch dim {
	case DimensionArea:
		for _, a := range volume.Areas {
			out = append(out, string(a))
		}
	case DimensionSegment:
		for _, s := range volume.Segments {
			out = append(out, string(s))
		}
	default:
		for _, s := range volume.Sectors {
			out = append(out, string(s))
		}
	}
	return out
}

func attribute(c volume.Customer, dim Dimension) string {
	switch dim {
	case DimensionArea:
		return string(c.Area)
	case DimensionSegment:
		return string(c.Segment)
	default:
		return string(c.Sector)
	}
}

// Aggregate sums every record by the dimension value of its customer.
// Every vocabulary value is present, in vocabulary order; values outside
// the vocabulary are appended as first seen. Records of unknown customers
// are skipped.
func Aggregate(records []volume.Record, customers []volume.Customer, dim Dimension) []Group {
	keys := vocabulary(dim)
	groups := make([]Group, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		groups[i].Key = k
		index[k] = i
	}

	byID := make(map[int64]volume.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	for _, r := range records {
		c, ok := byID[r.CustomerID]
		if !ok {
			continue
		}
		k := attribute(c, dim)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Add(r)
	}

	return groups
}

// YTDTotals sums records of the current year up to and including the
// current month. Variance is recomputed as actual minus budget.
func YTDTotals(records []volume.Record, now time.Time) volume.Totals {
	return totals(records, func(r volume.Record) bool {
		return r.Year == now.Year() && r.Month <= int(now.Month())
	})
}

// CurrentMonthTotals is YTDTotals restricted to the current month
func CurrentMonthTotals(records []volume.Record, now time.Time) volume.Totals {
	return totals(records, func(r volume.Record) bool {
		return r.Year == now.Year() && r.Month == int(now.Month())
	})
}

func totals(records []volume.Record, keep func(volume.Record) bool) volume.Totals {
	var t volume.Totals
	for _, r := range records {
		if r.Type == volume.TypeVariance || !keep(r) {
			continue
		}
		t.Add(r)
	}
	t.Variance = t.Actual.Sub(t.Budget)
	return t
}

// Service builds summaries from the repositories
type Service struct {
	customers volume.CustomerRepository
	records   volume.RecordRepository
	now       func() time.Time
	log       *logger.Logger
}

func NewService(customers volume.CustomerRepository, records volume.RecordRepository, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		customers: customers,
		records:   records,
		now:       clock,
		log:       logger.Get().With("component", "volume_summary"),
	}
}

// Summary groups all records by dim and adds the YTD and current-month totals
func (s *Service) Summary(ctx context.Context, dim Dimension) (*Summary, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	records, err := s.records.List(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list volume records")
	}

	now := s.now()
	out := &Summary{
		Dimension:    dim,
		Groups:       Aggregate(records, customers, dim),
		YTD:          YTDTotals(records, now),
		CurrentMonth: CurrentMonthTotals(records, now),
	}
	s.log.Debugw("Built volume summary", "dimension", dim, "records", len(records))
	return out, nil
}
