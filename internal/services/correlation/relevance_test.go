package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
)

func TestRelevanceScore(t *testing.T) {
	item := news.Item{
		Title:   "Rubber glove makers face new tariff",
		Content: "Malaysian rubber glove exports fall as the tariff bites.",
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no tokens", "", 0},
		{"title and content", "rubber", 20},
		{"two tokens both places", "rubber tariff", 40},
		{"content only", "malaysian", 5},
		{"case insensitive", "RUBBER GLOVE TARIFF", 60},
		{"capped at 100", "rubber glove tariff makers face new", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(tt.query)
			assert.Equal(t, tt.want, RelevanceScore(tokens, item))
		})
	}
}

func TestFilterAndRankNews(t *testing.T) {
	items := []news.Item{
		{Title: "Weather report", Content: "Sunny skies all week."},
		{Title: "Glove tariff demand rises", Content: "Glove production capacity expands. Unrelated line!", Sentiment: news.SentimentPositive},
		{Title: "Rubber glove tariff hits exporters", Content: "The tariff on rubber glove exports will increase costs. Officials met today.", Sentiment: news.SentimentNegative},
		{Title: "Glove", Content: "glove"},
	}

	refs := FilterAndRankNews("rubber glove tariff", items)

	require.Len(t, refs, 2)
	assert.Equal(t, "Rubber glove tariff hits exporters", refs[0].Title)
	assert.Equal(t, 60, refs[0].RelevanceScore)
	assert.Equal(t, news.SentimentNegative, refs[0].Sentiment)
	assert.Equal(t, []string{"The tariff on rubber glove exports will increase costs"}, refs[0].KeyPoints)
	assert.Equal(t, 35, refs[1].RelevanceScore)
	assert.Equal(t, []string{"Glove production capacity expands"}, refs[1].KeyPoints)

	// 15 + 5 = 20 is not above the threshold
	for _, ref := range refs {
		assert.Greater(t, ref.RelevanceScore, 20)
		assert.NotEqual(t, "Glove", ref.Title)
	}
	for i := 1; i < len(refs); i++ {
		assert.GreaterOrEqual(t, refs[i-1].RelevanceScore, refs[i].RelevanceScore)
	}
}

func TestFilterAndRankNewsStableOnTies(t *testing.T) {
	items := []news.Item{
		{Title: "glove one", Content: "glove rubber"},
		{Title: "glove two", Content: "glove rubber"},
	}

	refs := FilterAndRankNews("glove rubber", items)

	require.Len(t, refs, 2)
	assert.Equal(t, "glove one", refs[0].Title)
	assert.Equal(t, "glove two", refs[1].Title)
}

func TestFilterAndRankNewsEmpty(t *testing.T) {
	refs := FilterAndRankNews("pharmaceuticals outlook", []news.Item{
		{Title: "Unrelated", Content: "Nothing to see."},
	})
	assert.NotNil(t, refs)
	assert.Empty(t, refs)
}

func TestExtractKeyPoints(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", []string{}},
		{"no business terms", "The sky is blue. Birds sing!", []string{}},
		{
			name:    "splits on runs of terminators and trims",
			content: "  Demand is strong...Prices fell?!   Weather was mild. Revenue beat forecast  ",
			want:    []string{"Demand is strong", "Prices fell", "Revenue beat forecast"},
		},
		{
			name:    "caps at three",
			content: "Cost up. Margin down. Profit flat. Revenue steady.",
			want:    []string{"Cost up", "Margin down", "Profit flat"},
		},
		{
			name:    "substring match is case insensitive",
			content: "INCREASED output. Nothing here.",
			want:    []string{"INCREASED output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeyPoints(tt.content))
		})
	}
}
