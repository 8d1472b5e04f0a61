package analyst

import (
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

// significantImpact is the |impact| above which an insight counts as significant
const significantImpact = 5

type responseView struct {
	Query        string
	Title        string
	Description  string
	Confidence   int
	Strength     string
	Direction    string
	Impact       int
	Assessment   string
	Action       string
	MoreInsights bool
}

// BuildResponse renders the chat answer for a non-empty insight list. The
// first insight drives the text.
func BuildResponse(reg *templates.Registry, query string, insights []insight.CorrelatedInsight) (string, error) {
	main := insights[0]

	view := responseView{
		Query:        query,
		Title:        main.Title,
		Description:  main.Description,
		Confidence:   main.Confidence,
		Strength:     "moderate",
		Direction:    impactDirection(main.ImpactScore),
		Impact:       main.ImpactScore,
		Assessment:   impactAssessment(main.ImpactScore),
		MoreInsights: len(insights) > 1,
	}
	if main.ImpactScore > significantImpact || main.ImpactScore < -significantImpact {
		view.Strength = "significant"
	}
	if len(main.RecommendedActions) > 0 {
		view.Action = main.RecommendedActions[0]
	}

	return reg.Render(templates.AnalystResponse, view)
}

func impactDirection(score int) string {
	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func impactAssessment(score int) string {
	switch {
	case score > significantImpact:
		return "this represents an important opportunity for the business."
	case score < -significantImpact:
		return "this requires immediate attention and mitigation strategies."
	case score > 0:
		return "this is a positive development that should be monitored."
	case score < 0:
		return "this is a concerning trend that warrants closer observation."
	default:
		return "this has a balanced effect on operations at present."
	}
}

// FallbackNarrative picks the canned answer for a query that could not be
// correlated. Rubber glove tariff questions get the policy narrative when it
// applies.
func FallbackNarrative(reg *templates.Registry, policy func(string) string, query string) string {
	lower := strings.ToLower(query)
	gloves := strings.Contains(lower, "rubber") || strings.Contains(lower, "glove")

	if gloves && (strings.Contains(lower, "tariff") || strings.Contains(lower, "trump")) {
		if out := policy(query); out != "" {
			return out
		}
	}

	id := templates.FallbackGeneral
	switch {
	case gloves:
		id = templates.FallbackRubberGloves
	case strings.Contains(lower, "manufacturing"):
		id = templates.FallbackManufacturing
	case strings.Contains(lower, "energy") || strings.Contains(lower, "cost"):
		id = templates.FallbackEnergy
	}
	return reg.MustRender(id)
}
