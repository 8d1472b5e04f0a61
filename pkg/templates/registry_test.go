package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLoadAndRender(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "fallback")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	tplPath := filepath.Join(dir, "custom.tmpl")
	require.NoError(t, os.WriteFile(tplPath, []byte("Hello {{.Name}}\n"), 0o644))

	reg, err := NewRegistry(base)
	require.NoError(t, err)

	tmpl, err := reg.GetTemplate("fallback/custom")
	require.NoError(t, err)

	rendered, err := tmpl.Render(map[string]string{"Name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Alice", rendered, "final newline is dropped")

	// parsed once, later edits on disk are ignored
	require.NoError(t, os.WriteFile(tplPath, []byte("Hi {{.Name}}"), 0o644))
	rendered, err = tmpl.Render(map[string]string{"Name": "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Bob", rendered)
}

func TestRegistryLazyLoad(t *testing.T) {
	base := t.TempDir()
	reg, err := NewRegistry(base)
	require.NoError(t, err)

	path := filepath.Join(base, "telegram", "late.tmpl")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("Impact {{signed .}}"), 0o644))

	rendered, err := reg.Render("telegram/late", 4)
	require.NoError(t, err)
	assert.Equal(t, "Impact +4", rendered)

	_, err = reg.Render("telegram/missing", nil)
	assert.Error(t, err)
}

func TestEmbeddedRegistryListsNarratives(t *testing.T) {
	assert.Equal(t, []string{
		AnalystResponse,
		FallbackEnergy,
		FallbackGeneral,
		FallbackManufacturing,
		FallbackRubberGloves,
		PolicyTariffImpact,
		TelegramCustomerCard,
		TelegramInsightCard,
	}, Get().List())
}

func TestPolicyNarrative(t *testing.T) {
	out := Get().MustRender(PolicyTariffImpact)

	assert.True(t, strings.HasPrefix(out, "I've analyzed the impact of Trump tariffs on the Malaysian rubber gloves sector"))
	assert.True(t, strings.HasSuffix(out, "3. Monitor US-Malaysia trade negotiations for potential tariff adjustments\n"))
	for _, section := range []string{
		"**Tariff Impact Analysis:**",
		"**Market Adaptation:**",
		"**Gas Usage Forecast:**",
		"**Confidence Assessment:**",
		"**Recommended Actions:**",
		"85% confidence level",
	} {
		assert.Contains(t, out, section)
	}
}

func TestFallbackNarrativesHaveNoTrailingNewline(t *testing.T) {
	for _, id := range []string{FallbackRubberGloves, FallbackManufacturing, FallbackEnergy, FallbackGeneral} {
		out := Get().MustRender(id)
		assert.NotEmpty(t, out, id)
		assert.False(t, strings.HasSuffix(out, "\n"), id)
	}
	assert.True(t, strings.HasPrefix(Get().MustRender(FallbackGeneral), "Based on our internal gas volume data"))
}

func TestAnalystResponseTemplate(t *testing.T) {
	data := map[string]any{
		"Query":        "glove demand",
		"Title":        "T",
		"Description":  "D",
		"Confidence":   70,
		"Strength":     "moderate",
		"Direction":    "negative",
		"Impact":       -3,
		"Assessment":   "this is a concerning trend that warrants closer observation.",
		"Action":       "Act",
		"MoreInsights": false,
	}

	out, err := Get().Render(AnalystResponse, data)
	require.NoError(t, err)
	assert.Equal(t,
		"I've analyzed your question about \"glove demand\" by correlating our gas volume data with the latest market news.\n\n"+
			"**Key Finding:** T\n\nD\n\n"+
			"This analysis has a 70% confidence level based on the correlation strength between our data and external news sources.\n\n"+
			"**Impact Assessment:** The moderate negative impact (-3/10) suggests this is a concerning trend that warrants closer observation.\n\n"+
			"**Recommended Action:** Act\n\n",
		out)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "+3", Signed(3))
	assert.Equal(t, "0", Signed(0))
	assert.Equal(t, "-7", Signed(-7))
	assert.Equal(t, "1,234,568 GJ", FormatGJ(1234567.8))
}
