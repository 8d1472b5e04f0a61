package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
)

func TestGeneratePolicyResponseTariffNarrative(t *testing.T) {
	out := GeneratePolicyResponse("rubber glove tariff trump malaysia", nil, nil)

	assert.NotEmpty(t, out)
	assert.Contains(t, out, "Trump tariffs")
	assert.True(t, strings.HasPrefix(out, "I've analyzed the impact of Trump tariffs"))
}

func TestGeneratePolicyResponseIgnoresReferences(t *testing.T) {
	refs := []insight.NewsReference{{Title: "Anything", RelevanceScore: 90}}
	data := []insight.DataReference{{Metric: insight.MetricVolumeTrend, Value: 42}}

	assert.Equal(t,
		GeneratePolicyResponse("US tariffs on rubber gloves", nil, nil),
		GeneratePolicyResponse("US tariffs on rubber gloves", refs, data))
}

func TestApplies(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"rubber glove tariff trump malaysia", true},
		{"How do American tariffs hit rubber glove makers?", true},
		{"trump and gloves", true},
		{"US policy on glove exports", true},
		{"tariff impact on rubber gloves", false},    // no US context
		{"US tariffs on manufacturing", false},       // no rubber glove sector
		{"glove demand in the United States", false}, // no policy term
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Applies(tt.query))
			assert.Equal(t, tt.want, GeneratePolicyResponse(tt.query, nil, nil) != "")
		})
	}
}
