package correlation

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

const (
	trendThreshold         = 5.0
	volumeAnomalyThreshold = 15.0
	budgetAnomalyThreshold = 10.0
	trendWindowMonths      = 3
	minMonthsForTrend      = 2
	periodMonthOverMonth   = "Month-over-Month"
	periodCurrentMonth     = "Current Month"
)

var hundred = decimal.NewFromInt(100)

type monthKey struct {
	year  int
	month int
}

// shift moves k by delta months, rolling the year over as needed
func (k monthKey) shift(delta int) monthKey {
	idx := k.year*12 + (k.month - 1) + delta
	return monthKey{year: idx / 12, month: idx%12 + 1}
}

// aggregateMonthly sums records per calendar month and type
func aggregateMonthly(records []volume.Record) map[monthKey]*volume.Totals {
	buckets := make(map[monthKey]*volume.Totals)
	for _, r := range records {
		key := monthKey{year: r.Year, month: r.Month}
		t, ok := buckets[key]
		if !ok {
			t = &volume.Totals{}
			buckets[key] = t
		}
		t.Add(r)
	}
	return buckets
}

// AnalyzeVolumeTrend looks at the month of now and the two months before it.
// When at least two of them have data it returns the month-over-month volume
// trend and the current budget variance, otherwise nothing.
func AnalyzeVolumeTrend(records []volume.Record, now time.Time) []insight.DataReference {
	buckets := aggregateMonthly(records)
	current := monthKey{year: now.Year(), month: int(now.Month())}

	present := make([]*volume.Totals, 0, trendWindowMonths)
	for i := 0; i < trendWindowMonths; i++ {
		if t, ok := buckets[current.shift(-i)]; ok {
			present = append(present, t)
		}
	}
	if len(present) < minMonthsForTrend {
		return []insight.DataReference{}
	}

	latest, previous := present[0], present[1]

	change := percentChange(latest.Actual, previous.Actual)
	variance := percentChange(latest.Actual, latest.Budget)

	return []insight.DataReference{
		{
			Metric:  insight.MetricVolumeTrend,
			Value:   change,
			Trend:   ClassifyTrend(change),
			Period:  periodMonthOverMonth,
			Anomaly: math.Abs(change) > volumeAnomalyThreshold,
		},
		{
			Metric:  insight.MetricBudgetVariance,
			Value:   variance,
			Trend:   ClassifyTrend(variance),
			Period:  periodCurrentMonth,
			Anomaly: math.Abs(variance) > budgetAnomalyThreshold,
		},
	}
}

// percentChange is (value-base)/base*100, or 0 when base is not positive
func percentChange(value, base decimal.Decimal) float64 {
	if !base.IsPositive() {
		return 0
	}
	return value.Sub(base).Div(base).Mul(hundred).InexactFloat64()
}

// ClassifyTrend maps a signed percent onto the ±5% bands
func ClassifyTrend(percent float64) insight.Trend {
	switch {
	case percent > trendThreshold:
		return insight.TrendIncreasing
	case percent < -trendThreshold:
		return insight.TrendDecreasing
	default:
		return insight.TrendStable
	}
}

func findReference(refs []insight.DataReference, metric insight.Metric) *insight.DataReference {
	for i := range refs {
		if refs[i].Metric == metric {
			return &refs[i]
		}
	}
	return nil
}

func lowerPeriod(ref insight.DataReference) string {
	return strings.ToLower(ref.Period)
}
