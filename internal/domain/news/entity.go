package news

import "time"

// Sentiment is the coarse tone of an article
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Score maps sentiment to +1, 0 or -1
func (s Sentiment) Score() int {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Origin identifies where a search response came from
type Origin string

const (
	OriginTavily Origin = "tavily"
	OriginCache  Origin = "cache"
	OriginMock   Origin = "mock"
	OriginRSS    Origin = "rss"
)

// Item is a normalized news article consumed by the correlation engine
type Item struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Source    string    `json:"source"`
	Date      string    `json:"date"`
	Sentiment Sentiment `json:"sentiment"`
}

// RawResult is a search hit as returned by the search API. Every field may be empty.
type RawResult struct {
	Title         string  `json:"title"`
	Content       string  `json:"content,omitempty"`
	Snippet       string  `json:"snippet,omitempty"`
	URL           string  `json:"url"`
	Source        string  `json:"source,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	Score         float64 `json:"score,omitempty"`
}

// SearchResponse is the payload of one news search
type SearchResponse struct {
	Query   string      `json:"query,omitempty"`
	Answer  string      `json:"answer,omitempty"`
	Results []RawResult `json:"results"`
	Origin  Origin      `json:"origin,omitempty"`
}

// Article is an archived news item (ClickHouse)
type Article struct {
	ID          string    `ch:"id"`
	Origin      string    `ch:"origin"`
	Query       string    `ch:"query"`
	Title       string    `ch:"title"`
	Content     string    `ch:"content"`
	URL         string    `ch:"url"`
	Source      string    `ch:"source"`
	Sentiment   string    `ch:"sentiment"`
	PublishedAt time.Time `ch:"published_at"`
	CollectedAt time.Time `ch:"collected_at"`
}
