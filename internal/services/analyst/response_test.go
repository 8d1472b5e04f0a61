package analyst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

func TestBuildResponseWithSeveralInsights(t *testing.T) {
	insights := []insight.CorrelatedInsight{
		{
			Title:              "Volume decline correlated with market news",
			Description:        "Gas volume fell.",
			ImpactScore:        -7,
			Confidence:         80,
			RecommendedActions: []string{"Engage key customers", "Review budget"},
		},
		{Title: "Second"},
	}

	out, err := BuildResponse(templates.Get(), "glove outlook", insights)
	require.NoError(t, err)

	assert.Equal(t,
		"I've analyzed your question about \"glove outlook\" by correlating our gas volume data with the latest market news.\n\n"+
			"**Key Finding:** Volume decline correlated with market news\n\nGas volume fell.\n\n"+
			"This analysis has a 80% confidence level based on the correlation strength between our data and external news sources.\n\n"+
			"**Impact Assessment:** The significant negative impact (-7/10) suggests this requires immediate attention and mitigation strategies.\n\n"+
			"**Recommended Action:** Engage key customers\n\n"+
			"I've provided additional correlated insights below for your review. You can expand each card to see the supporting news and data.",
		out)
}

func TestBuildResponseImpactBands(t *testing.T) {
	tests := []struct {
		score    int
		contains string
	}{
		{8, "The significant positive impact (+8/10) suggests this represents an important opportunity for the business."},
		{5, "The moderate positive impact (+5/10) suggests this is a positive development that should be monitored."},
		{-5, "The moderate negative impact (-5/10) suggests this is a concerning trend that warrants closer observation."},
		{0, "The moderate neutral impact (0/10) suggests this has a balanced effect on operations at present."},
	}
	for _, tt := range tests {
		out, err := BuildResponse(templates.Get(), "q", []insight.CorrelatedInsight{{Title: "T", ImpactScore: tt.score}})
		require.NoError(t, err)
		assert.Contains(t, out, tt.contains)
		assert.NotContains(t, out, "Recommended Action")
		assert.NotContains(t, out, "additional correlated insights")
	}
}

func TestFallbackNarrative(t *testing.T) {
	reg := templates.Get()
	policy := func(q string) string {
		if q == "trump tariff gloves" {
			return "POLICY"
		}
		return ""
	}

	tests := []struct {
		query string
		want  string
	}{
		{"trump tariff gloves", "POLICY"},
		{"tariff on rubber", reg.MustRender(templates.FallbackRubberGloves)},
		{"Glove output", reg.MustRender(templates.FallbackRubberGloves)},
		{"manufacturing growth", reg.MustRender(templates.FallbackManufacturing)},
		{"gas cost outlook", reg.MustRender(templates.FallbackEnergy)},
		{"Energy prices", reg.MustRender(templates.FallbackEnergy)},
		{"anything else", reg.MustRender(templates.FallbackGeneral)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackNarrative(reg, policy, tt.query), tt.query)
	}
}
