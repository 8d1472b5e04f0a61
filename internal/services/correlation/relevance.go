package correlation

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/insight"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
)

const (
	titleMatchWeight   = 15
	contentMatchWeight = 5
	maxRelevance       = 100
	// items must score strictly above this to be kept
	relevanceThreshold = 20
	maxKeyPoints       = 3
)

// FilterAndRankNews scores items against the whitespace tokens of query and
// returns those above the relevance threshold, highest score first. Ties keep
// input order.
func FilterAndRankNews(query string, items []news.Item) []insight.NewsReference {
	tokens := tokenize(query)

	refs := make([]insight.NewsReference, 0, len(items))
	for _, item := range items {
		score := RelevanceScore(tokens, item)
		if score <= relevanceThreshold {
			continue
		}
		refs = append(refs, insight.NewsReference{
			Title:          item.Title,
			URL:            item.URL,
			Source:         item.Source,
			Date:           item.Date,
			RelevanceScore: score,
			Sentiment:      item.Sentiment,
			KeyPoints:      ExtractKeyPoints(item.Content),
		})
	}

	slices.SortStableFunc(refs, func(a, b insight.NewsReference) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})
	return refs
}

// RelevanceScore counts lowercased tokens found in the title and the content,
// weighted and capped to [0, 100].
func RelevanceScore(tokens []string, item news.Item) int {
	title := strings.ToLower(item.Title)
	content := strings.ToLower(item.Content)

	var titleMatches, contentMatches int
	for _, token := range tokens {
		if strings.Contains(title, token) {
			titleMatches++
		}
		if strings.Contains(content, token) {
			contentMatches++
		}
	}

	return clampInt(titleMatches*titleMatchWeight+contentMatches*contentMatchWeight, 0, maxRelevance)
}

// ExtractKeyPoints returns up to three trimmed sentences of content that
// mention a business term. Sentences end at '.', '!' or '?'.
func ExtractKeyPoints(content string) []string {
	sentences := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	points := []string{}
	for _, sentence := range sentences {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		if !containsAny(strings.ToLower(trimmed), keyTerms) {
			continue
		}
		points = append(points, trimmed)
		if len(points) == maxKeyPoints {
			break
		}
	}
	return points
}

// tokenize splits query on whitespace after lowercasing
func tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
