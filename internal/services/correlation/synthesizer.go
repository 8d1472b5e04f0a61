package correlation

import (
	"fmt"
	"math"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

const (
	maxSupportingNews = 3

	minImpact     = -10
	maxImpact     = 10
	minConfidence = 0
	maxConfidence = 100

	confidenceAligned    = 75
	confidenceMisaligned = 50
	confidenceVariance   = 80
	confidenceNewsOnly   = 60
	confidenceDataOnly   = 70
	confidenceGeneral    = 30

	impactVariance = 5
	impactNewsOnly = 3
	impactDataOnly = 4

	newsImpactWeight = 0.2
)

// SynthesizeInsights merges ranked news and volume metrics into insights.
// The first insight is the main finding. now stamps the insight IDs.
func SynthesizeInsights(refs []insight.NewsReference, data []insight.DataReference, query string, now time.Time) []insight.CorrelatedInsight {
	insights := []insight.CorrelatedInsight{}

	if len(refs) > 0 && len(data) > 0 {
		supporting := refs[:min(len(refs), maxSupportingNews)]
		volumeTrend := findReference(data, insight.MetricVolumeTrend)
		budgetVariance := findReference(data, insight.MetricBudgetVariance)

		if volumeTrend != nil {
			insights = append(insights, trendInsight(*volumeTrend, budgetVariance, supporting, now))
		}
		if budgetVariance != nil && budgetVariance.Anomaly {
			insights = append(insights, varianceInsight(*budgetVariance, volumeTrend, supporting, now))
		}
	}

	if len(insights) > 0 {
		return insights
	}
	return []insight.CorrelatedInsight{fallbackInsight(refs, data, query, now)}
}

func trendInsight(trend insight.DataReference, variance *insight.DataReference, refs []insight.NewsReference, now time.Time) insight.CorrelatedInsight {
	newsImpact := meanSentiment(refs)
	aligned := sentimentAligned(newsImpact, trend.Trend)

	confidence := confidenceMisaligned
	if aligned {
		confidence = confidenceAligned
	}

	return insight.CorrelatedInsight{
		ID:                 insightID(insight.KindTrend, now),
		Kind:               insight.KindTrend,
		Title:              fmt.Sprintf("Volume %s correlated with market news", trendDirection(trend.Trend)),
		Description:        trendDescription(trend, refs, aligned),
		ImpactScore:        ImpactScore(trend.Value, newsImpact),
		Confidence:         clampInt(confidence, minConfidence, maxConfidence),
		Sectors:            SectorsFromNews(refs),
		Areas:              []volume.Area{},
		NewsReferences:     refs,
		DataReferences:     []insight.DataReference{trend},
		RecommendedActions: RecommendActions(&trend, variance, refs),
	}
}

func varianceInsight(variance insight.DataReference, trend *insight.DataReference, refs []insight.NewsReference, now time.Time) insight.CorrelatedInsight {
	label := "underperformance"
	impact := -impactVariance
	if variance.Trend == insight.TrendIncreasing {
		label = "overperformance"
		impact = impactVariance
	}

	return insight.CorrelatedInsight{
		ID:                 insightID(insight.KindVariance, now),
		Kind:               insight.KindVariance,
		Title:              fmt.Sprintf("Significant budget %s detected", label),
		Description:        varianceDescription(variance, refs),
		ImpactScore:        impact,
		Confidence:         confidenceVariance,
		Sectors:            SectorsFromNews(refs),
		Areas:              []volume.Area{},
		NewsReferences:     refs,
		DataReferences:     []insight.DataReference{variance},
		RecommendedActions: RecommendActions(trend, &variance, refs),
	}
}

// fallbackInsight is the single-source or generic insight used when no
// correlation could be drawn
func fallbackInsight(refs []insight.NewsReference, data []insight.DataReference, query string, now time.Time) insight.CorrelatedInsight {
	switch {
	case len(refs) > 0:
		top := refs[0]
		impact := top.Sentiment.Score() * impactNewsOnly
		return insight.CorrelatedInsight{
			ID:                 insightID(insight.KindNews, now),
			Kind:               insight.KindNews,
			Title:              "Market developments may impact gas volume",
			Description:        headline(top, false),
			ImpactScore:        impact,
			Confidence:         confidenceNewsOnly,
			Sectors:            SectorsFromNews(refs),
			Areas:              []volume.Area{},
			NewsReferences:     refs[:min(len(refs), maxSupportingNews)],
			DataReferences:     []insight.DataReference{},
			RecommendedActions: []string{actionMonitorNews},
		}

	case len(data) > 0:
		metric := data[0]
		direction := "decreased"
		impact := -impactDataOnly
		if metric.Trend == insight.TrendIncreasing {
			direction = "increased"
			impact = impactDataOnly
		}
		return insight.CorrelatedInsight{
			ID:    insightID(insight.KindData, now),
			Kind:  insight.KindData,
			Title: fmt.Sprintf("%s shows notable %s trend", metric.Metric, metric.Trend),
			Description: fmt.Sprintf("%s has %s by %.1f%% %s.",
				metric.Metric, direction, math.Abs(metric.Value), lowerPeriod(metric)),
			ImpactScore:        impact,
			Confidence:         confidenceDataOnly,
			Sectors:            []volume.Sector{},
			Areas:              []volume.Area{},
			NewsReferences:     []insight.NewsReference{},
			DataReferences:     []insight.DataReference{metric},
			RecommendedActions: []string{actionInvestigateTrend},
		}

	default:
		return insight.CorrelatedInsight{
			ID:                 insightID(insight.KindGeneral, now),
			Kind:               insight.KindGeneral,
			Title:              "Insufficient data for correlation analysis",
			Description:        fmt.Sprintf("Unable to find strong correlations between news and gas volume data for \"%s\".", query),
			ImpactScore:        0,
			Confidence:         confidenceGeneral,
			Sectors:            []volume.Sector{},
			Areas:              []volume.Area{},
			NewsReferences:     []insight.NewsReference{},
			DataReferences:     []insight.DataReference{},
			RecommendedActions: []string{actionRefineSearch},
		}
	}
}

// ImpactScore scales a percent change by a third, weights it by the news
// sentiment (20% per unit) and clamps the rounded result to [-10, 10].
// Halves round up.
func ImpactScore(changePercent, newsImpact float64) int {
	adjusted := changePercent / 3 * (1 + newsImpact*newsImpactWeight)
	if math.IsNaN(adjusted) {
		return 0
	}
	// clamp before converting so infinities stay in range
	rounded := math.Floor(adjusted + 0.5)
	return int(math.Max(minImpact, math.Min(maxImpact, rounded)))
}

func meanSentiment(refs []insight.NewsReference) float64 {
	if len(refs) == 0 {
		return 0
	}
	sum := 0
	for _, ref := range refs {
		sum += ref.Sentiment.Score()
	}
	return float64(sum) / float64(len(refs))
}

func sentimentAligned(newsImpact float64, trend insight.Trend) bool {
	switch {
	case newsImpact > 0:
		return trend == insight.TrendIncreasing
	case newsImpact < 0:
		return trend == insight.TrendDecreasing
	default:
		return trend == insight.TrendStable
	}
}

func trendDirection(t insight.Trend) string {
	switch t {
	case insight.TrendIncreasing:
		return "growth"
	case insight.TrendDecreasing:
		return "decline"
	default:
		return "stability"
	}
}

func trendDescription(trend insight.DataReference, refs []insight.NewsReference, aligned bool) string {
	var change string
	switch trend.Trend {
	case insight.TrendIncreasing:
		change = fmt.Sprintf("increased by %.1f%%", trend.Value)
	case insight.TrendDecreasing:
		change = fmt.Sprintf("decreased by %.1f%%", math.Abs(trend.Value))
	default:
		change = "remained stable"
	}

	desc := fmt.Sprintf("Gas volume has %s %s. ", change, lowerPeriod(trend))
	if len(refs) == 0 {
		return desc
	}
	if aligned {
		desc += "This trend aligns with recent news: "
	} else {
		desc += "Despite contrary indicators in recent news: "
	}
	return desc + headline(refs[0], true)
}

func varianceDescription(variance insight.DataReference, refs []insight.NewsReference) string {
	var text string
	if variance.Trend == insight.TrendIncreasing {
		text = fmt.Sprintf("exceeding budget by %.1f%%", variance.Value)
	} else {
		text = fmt.Sprintf("falling short of budget by %.1f%%", math.Abs(variance.Value))
	}

	desc := fmt.Sprintf("Current gas volume is %s. ", text)
	if len(refs) == 0 {
		return desc
	}
	return desc + "This may be explained by recent developments: " + headline(refs[0], true)
}

// headline is the first key point of ref, else its title (optionally quoted)
func headline(ref insight.NewsReference, quoteTitle bool) string {
	if len(ref.KeyPoints) > 0 {
		return ref.KeyPoints[0]
	}
	if quoteTitle {
		return `"` + ref.Title + `"`
	}
	return ref.Title
}

func insightID(kind insight.Kind, now time.Time) string {
	return fmt.Sprintf("%s-%d", kind, now.UnixMilli())
}
