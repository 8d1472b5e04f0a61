package customer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Status classifies YTD performance against budget
type Status string

const (
	StatusOnTrack         Status = "On Track"
	StatusAtRisk          Status = "At Risk"
	StatusUnderperforming Status = "Underperforming"
)

const (
	onTrackFloor = -5.0  // variance percent
	atRiskFloor  = -15.0 // variance percent

	historyMonths  = 6
	forecastMonths = 3
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// SeriesPoint is one month of a customer chart. Forecast is only set for
// future months.
type SeriesPoint struct {
	Month    string   `json:"month"`
	Actual   float64  `json:"actual"`
	Budget   float64  `json:"budget"`
	Forecast *float64 `json:"forecast,omitempty"`
}

// Insight is the performance card of one customer
type Insight struct {
	volume.Customer
	Status          Status        `json:"status"`
	YTDActual       float64       `json:"actualVolume"`
	YTDBudget       float64       `json:"budgetVolume"`
	ForecastVolume  float64       `json:"forecastVolume"`
	Variance        float64       `json:"variance"`
	VariancePercent float64       `json:"variancePercent"`
	Rank            int           `json:"rank"`
	Insights        []string      `json:"insights"`
	TimeSeries      []SeriesPoint `json:"timeSeriesData"`
}

// ClassifyStatus maps a YTD variance percent to a status
func ClassifyStatus(variancePercent float64) Status {
	switch {
	case variancePercent >= onTrackFloor:
		return StatusOnTrack
	case variancePercent >= atRiskFloor:
		return StatusAtRisk
	default:
		return StatusUnderperforming
	}
}

type period struct{ year, month int }

func (p period) shift(delta int) period {
	idx := p.year*12 + (p.month - 1) + delta
	return period{year: idx / 12, month: idx%12 + 1}
}

type key struct {
	period
	typ volume.Type
}

// GenerateInsights builds one card per customer, ranked in input order.
// YTD covers the current year up to and including the current month; the
// forecast covers the three months after it.
func GenerateInsights(customers []volume.Customer, records []volume.Record, now time.Time) []Insight {
	current := period{year: now.Year(), month: int(now.Month())}

	byCustomer := make(map[int64]map[key]decimal.Decimal, len(customers))
	for _, r := range records {
		sums, ok := byCustomer[r.CustomerID]
		if !ok {
			sums = map[key]decimal.Decimal{}
			byCustomer[r.CustomerID] = sums
		}
		k := key{period{r.Year, r.Month}, r.Type}
		sums[k] = sums[k].Add(r.Volume)
	}

	out := make([]Insight, 0, len(customers))
	for i, c := range customers {
		sums := byCustomer[c.ID]
		get := func(p period, t volume.Type) decimal.Decimal { return sums[key{p, t}] }

		var ytdActual, ytdBudget, forecast decimal.Decimal
		for m := 1; m <= current.month; m++ {
			p := period{current.year, m}
			ytdActual = ytdActual.Add(get(p, volume.TypeActual))
			ytdBudget = ytdBudget.Add(get(p, volume.TypeBudget))
		}
		for d := 1; d <= forecastMonths; d++ {
			forecast = forecast.Add(get(current.shift(d), volume.TypeForecast))
		}

		variance := ytdActual.Sub(ytdBudget)
		variancePercent := 0.0
		if ytdBudget.IsPositive() {
			variancePercent = variance.Div(ytdBudget).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		status := ClassifyStatus(variancePercent)

		series := make([]SeriesPoint, 0, historyMonths+1+forecastMonths)
		for d := -historyMonths; d <= 0; d++ {
			p := current.shift(d)
			series = append(series, SeriesPoint{
				Month:  monthNames[p.month-1],
				Actual: get(p, volume.TypeActual).InexactFloat64(),
				Budget: get(p, volume.TypeBudget).InexactFloat64(),
			})
		}
		for d := 1; d <= forecastMonths; d++ {
			p := current.shift(d)
			f := get(p, volume.TypeForecast).InexactFloat64()
			series = append(series, SeriesPoint{
				Month:    monthNames[p.month-1],
				Budget:   get(p, volume.TypeBudget).InexactFloat64(),
				Forecast: &f,
			})
		}

		out = append(out, Insight{
			Customer:        c,
			Status:          status,
			YTDActual:       ytdActual.InexactFloat64(),
			YTDBudget:       ytdBudget.InexactFloat64(),
			ForecastVolume:  forecast.InexactFloat64(),
			Variance:        variance.InexactFloat64(),
			VariancePercent: variancePercent,
			Rank:            i + 1,
			Insights:        Narrative(c, variancePercent, status),
			TimeSeries:      series,
		})
	}

	return out
}

// Narrative returns the four commentary lines of a customer card: status,
// sector, segment and recommendation.
func Narrative(c volume.Customer, variancePercent float64, status Status) []string {
	lines := make([]string, 0, 4)

	below := math.Abs(variancePercent)
	switch status {
	case StatusOnTrack:
		where := "near"
		if variancePercent > 0 {
			where = "above"
		}
		lines = append(lines, fmt.Sprintf("%s is performing well with volumes %s budget targets.", c.Name, where))
	case StatusAtRisk:
		lines = append(lines, fmt.Sprintf("%s is showing concerning trends with volumes %.1f%% below budget.", c.Name, below))
	default:
		lines = append(lines, fmt.Sprintf("%s is significantly underperforming with volumes %.1f%% below budget.", c.Name, below))
	}

	switch c.Sector {
	case volume.SectorRubberGloves:
		lines = append(lines, "The rubber gloves sector is experiencing strong demand due to healthcare industry growth.")
	case volume.SectorOleochemical:
		lines = append(lines, "Recent supply chain disruptions are impacting the oleochemical sector's performance.")
	case volume.SectorConsumerProducts:
		lines = append(lines, "Consumer products sector shows stable demand patterns with seasonal fluctuations.")
	default:
		lines = append(lines, fmt.Sprintf("The %s sector is showing typical performance patterns for this time of year.", c.Sector))
	}

	switch c.Segment {
	case volume.SegmentElite:
		lines = append(lines, "Elite segment customers typically have more stable consumption patterns and higher retention rates.")
	case volume.SegmentPremium:
		lines = append(lines, "Premium segment customers show moderate growth potential with targeted engagement.")
	default:
		lines = append(lines, "Preferred segment customers may benefit from more frequent touchpoints and service reviews.")
	}

	switch status {
	case StatusOnTrack:
		lines = append(lines, "Recommendation: Maintain current engagement strategy and explore upsell opportunities.")
	case StatusAtRisk:
		lines = append(lines, "Recommendation: Schedule a review meeting to address volume shortfall and identify improvement areas.")
	default:
		lines = append(lines, "Recommendation: Immediate intervention required. Develop a recovery plan with the account team.")
	}

	return lines
}

// Service serves customer insight cards from the repositories
type Service struct {
	customers volume.CustomerRepository
	records   volume.RecordRepository
	now       func() time.Time
	log       *logger.Logger
}

// NewService creates the service. A nil clock means time.Now.
func NewService(customers volume.CustomerRepository, records volume.RecordRepository, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		customers: customers,
		records:   records,
		now:       clock,
		log:       logger.Get().With("component", "customer_insights"),
	}
}

// Insights returns cards for every customer in roster order
func (s *Service) Insights(ctx context.Context) ([]Insight, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	records, err := s.records.List(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list volume records")
	}

	out := GenerateInsights(customers, records, s.now())
	s.log.Debugw("Generated customer insights", "customers", len(out), "records", len(records))
	return out, nil
}

// ForCustomer returns the card of one customer. Rank is always 1.
func (s *Service) ForCustomer(ctx context.Context, id int64) (*Insight, error) {
	c, err := s.customers.GetByID(ctx, id)
	if errors.Is(err, errors.ErrCustomerNotFound) {
		return nil, errors.NewDomainError("CUSTOMER_NOT_FOUND", fmt.Sprintf("customer %d", id), err)
	}
	if err != nil {
		return nil, errors.Wrap(err, "get customer")
	}
	records, err := s.records.List(ctx, []int64{id})
	if err != nil {
		return nil, errors.Wrap(err, "list volume records")
	}

	out := GenerateInsights([]volume.Customer{*c}, records, s.now())
	return &out[0], nil
}
