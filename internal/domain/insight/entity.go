package insight

import (
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

// Trend is the direction of a percent change
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Metric names a data reference
type Metric string

const (
	MetricVolumeTrend    Metric = "Volume Trend"
	MetricBudgetVariance Metric = "Budget Variance"
)

// Kind tells which rule produced an insight
type Kind string

const (
	KindTrend    Kind = "trend"
	KindVariance Kind = "variance"
	KindNews     Kind = "news"
	KindData     Kind = "data"
	KindGeneral  Kind = "general"
)

// NewsReference is a news item ranked against a query
type NewsReference struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Source         string         `json:"source"`
	Date           string         `json:"date"`
	RelevanceScore int            `json:"relevanceScore"`
	Sentiment      news.Sentiment `json:"sentiment"`
	KeyPoints      []string       `json:"keyPoints"`
}

// DataReference is a computed volume metric. Value is a signed percent.
type DataReference struct {
	Metric  Metric  `json:"metric"`
	Value   float64 `json:"value"`
	Trend   Trend   `json:"trend"`
	Period  string  `json:"period"`
	Anomaly bool    `json:"anomaly"`
}

// CorrelatedInsight connects a data trend with a news signal.
// ImpactScore is within [-10, 10], Confidence within [0, 100].
type CorrelatedInsight struct {
	ID                 string          `json:"id"`
	Kind               Kind            `json:"kind"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	ImpactScore        int             `json:"impactScore"`
	Confidence         int             `json:"confidence"`
	Sectors            []volume.Sector `json:"sectors"`
	Areas              []volume.Area   `json:"areas"`
	NewsReferences     []NewsReference `json:"newsReferences"`
	DataReferences     []DataReference `json:"dataReferences"`
	RecommendedActions []string        `json:"recommendedActions,omitempty"`
}
