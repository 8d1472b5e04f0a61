package news

import (
	"strings"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
)

var (
	positiveTerms = []string{
		"growth", "increase", "profit", "success", "positive", "improvement",
		"opportunity", "expand", "gain", "recovery", "boost", "rise",
	}
	negativeTerms = []string{
		"decline", "decrease", "loss", "failure", "negative", "challenge",
		"problem", "crisis", "risk", "threat", "drop", "fall", "concern",
	}
)

// ClassifySentiment counts distinct positive and negative terms present in
// content. One side must lead by at least two to win.
func ClassifySentiment(content string) news.Sentiment {
	lower := strings.ToLower(content)

	pos := countTerms(lower, positiveTerms)
	neg := countTerms(lower, negativeTerms)

	switch {
	case pos > neg+1:
		return news.SentimentPositive
	case neg > pos+1:
		return news.SentimentNegative
	default:
		return news.SentimentNeutral
	}
}

func countTerms(lower string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}
