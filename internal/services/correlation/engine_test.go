package correlation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

func TestEngineCorrelateNarrowsToQueriedSector(t *testing.T) {
	engine := NewEngine(func() time.Time { return fixedNow })

	customers := []volume.Customer{
		{ID: 1, Area: volume.AreaJHR, Sector: volume.SectorRubberGloves},
		{ID: 5, Area: volume.AreaJHR, Sector: volume.SectorManufacturing},
	}
	records := []volume.Record{
		rec(1, volume.TypeActual, 2025, 5, 7000),
		rec(1, volume.TypeBudget, 2025, 5, 10000),
		rec(1, volume.TypeActual, 2025, 4, 7000),
		// manufacturing would mask the rubber decline if it were not filtered out
		rec(5, volume.TypeActual, 2025, 5, 50000),
		rec(5, volume.TypeBudget, 2025, 5, 10000),
		rec(5, volume.TypeActual, 2025, 4, 1000),
	}
	items := []news.Item{
		{
			Title:     "Rubber glove makers cut output",
			Content:   "Rubber glove production will decline this quarter. Shares fell.",
			URL:       "https://example.com/a",
			Source:    "Wire",
			Date:      "2025-05-18",
			Sentiment: news.SentimentNegative,
		},
	}

	result := engine.Correlate("rubber glove outlook", items, records, customers)

	assert.Equal(t, []volume.Sector{volume.SectorRubberGloves}, result.Intent.Sectors)
	require.Len(t, result.News, 1)
	require.Len(t, result.Data, 2)
	assert.InDelta(t, 0.0, result.Data[0].Value, 1e-9)
	assert.InDelta(t, -30.0, result.Data[1].Value, 1e-9)

	require.Len(t, result.Insights, 2)
	assert.Equal(t, insight.KindTrend, result.Insights[0].Kind)
	assert.Equal(t, "Volume stability correlated with market news", result.Insights[0].Title)
	assert.Equal(t, 50, result.Insights[0].Confidence)

	assert.Equal(t, insight.KindVariance, result.Insights[1].Kind)
	assert.Equal(t, -5, result.Insights[1].ImpactScore)
	assert.Equal(t, 80, result.Insights[1].Confidence)
}

func TestEngineSynthesizeUsesClock(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	engine := NewEngine(func() time.Time { return at })

	got := engine.SynthesizeInsights(nil, nil, "x")

	require.Len(t, got, 1)
	assert.Equal(t, "general-1700000000123", got[0].ID)
}

func TestRecommendActionsDefault(t *testing.T) {
	up := insight.DataReference{Metric: insight.MetricVolumeTrend, Value: 8, Trend: insight.TrendIncreasing}
	mild := insight.DataReference{Metric: insight.MetricBudgetVariance, Value: -8, Trend: insight.TrendDecreasing}

	assert.Equal(t,
		[]string{"Continue monitoring trends for sustained performance"},
		RecommendActions(&up, &mild, []insight.NewsReference{newsRef("x", news.SentimentPositive)}))
	assert.Equal(t,
		[]string{"Continue monitoring trends for sustained performance"},
		RecommendActions(nil, nil, nil))
}
