package policy

import (
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/volume"
	"github.com/ahmadnadir/gasnadir/internal/services/correlation"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
	"github.com/ahmadnadir/gasnadir/pkg/templates"
)

// Specializer answers trade-policy questions about the rubber glove sector
// with a fixed narrative.
type Specializer struct {
	registry *templates.Registry
	log      *logger.Logger
}

// NewSpecializer creates a specializer. A nil registry uses the embedded one.
func NewSpecializer(registry *templates.Registry) *Specializer {
	if registry == nil {
		registry = templates.Get()
	}
	return &Specializer{
		registry: registry,
		log:      logger.Get().With("component", "policy_specializer"),
	}
}

// Applies reports whether query is a US tariff question about rubber gloves:
// a policy term or "trump", a US context (alias or "trump"), and the rubber
// glove sector (alias or "glove").
func Applies(query string) bool {
	lower := strings.ToLower(query)
	intent := correlation.ExtractIntent(query)
	trump := strings.Contains(lower, "trump")

	policy := len(intent.PolicyTerms) > 0 || trump
	us := intent.HasCountry(correlation.CountryUS) || trump
	gloves := intent.HasSector(volume.SectorRubberGloves) || strings.Contains(lower, "glove")

	return policy && us && gloves
}

// Respond returns the tariff narrative when the query qualifies and "" when
// the caller should use its own response. The references do not change the
// narrative.
func (s *Specializer) Respond(query string, _ []insight.NewsReference, _ []insight.DataReference) string {
	if !Applies(query) {
		return ""
	}

	out, err := s.registry.Render(templates.PolicyTariffImpact, nil)
	if err != nil {
		s.log.Errorw("Failed to render policy narrative", "error", err)
		return ""
	}
	return out
}

var defaultSpecializer = NewSpecializer(nil)

// GeneratePolicyResponse runs the default specializer
func GeneratePolicyResponse(query string, refs []insight.NewsReference, data []insight.DataReference) string {
	return defaultSpecializer.Respond(query, refs, data)
}
