package correlation

import (
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
)

const (
	actionReviewSales       = "Review sales and marketing strategies for affected sectors"
	actionInvestigateSupply = "Investigate supply chain for potential disruptions"
	actionBudgetReview      = "Schedule budget review meeting with finance team"
	actionVarianceReport    = "Prepare variance explanation for management report"
	actionMonitorNegative   = "Monitor market developments closely for continued impact"
	actionContinue          = "Continue monitoring trends for sustained performance"
	actionMonitorNews       = "Monitor these developments for potential business impact"
	actionInvestigateTrend  = "Investigate factors driving this trend"
	actionRefineSearch      = "Refine search parameters for better results"

	budgetReviewThreshold = -10.0
)

// RecommendActions derives follow-ups from the volume trend, the budget
// variance and the sentiment of the supporting news. Never empty.
func RecommendActions(volumeTrend, budgetVariance *insight.DataReference, refs []insight.NewsReference) []string {
	actions := []string{}

	if volumeTrend != nil && volumeTrend.Trend == insight.TrendDecreasing {
		actions = append(actions, actionReviewSales, actionInvestigateSupply)
	}

	if budgetVariance != nil && budgetVariance.Trend == insight.TrendDecreasing && budgetVariance.Value < budgetReviewThreshold {
		actions = append(actions, actionBudgetReview, actionVarianceReport)
	}

	for _, ref := range refs {
		if ref.Sentiment == news.SentimentNegative {
			actions = append(actions, actionMonitorNegative)
			break
		}
	}

	if len(actions) == 0 {
		actions = append(actions, actionContinue)
	}
	return actions
}

// SectorsFromNews collects sector names mentioned in titles or key points,
// de-duplicated in order of first encounter.
func SectorsFromNews(refs []insight.NewsReference) []volume.Sector {
	seen := make(map[volume.Sector]bool)
	out := []volume.Sector{}

	for _, ref := range refs {
		title := strings.ToLower(ref.Title)
		for _, sector := range volume.Sectors {
			if seen[sector] {
				continue
			}
			name := strings.ToLower(string(sector))
			if strings.Contains(title, name) || keyPointsMention(ref.KeyPoints, name) {
				seen[sector] = true
				out = append(out, sector)
			}
		}
	}
	return out
}

func keyPointsMention(points []string, lowerTerm string) bool {
	for _, p := range points {
		if strings.Contains(strings.ToLower(p), lowerTerm) {
			return true
		}
	}
	return false
}
