package news

import (
	"time"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
)

const (
	defaultTitle  = "Untitled Article"
	defaultURL    = "#"
	defaultSource = "News Source"

	unknownDate   = "Unknown date"
	unknownSource = "Unknown source"
)

// Normalize turns raw search hits into news items, substituting defaults for
// missing fields and classifying sentiment. It never fails.
func Normalize(results []news.RawResult, now time.Time) []news.Item {
	items := make([]news.Item, 0, len(results))
	today := now.Format(time.DateOnly)

	for _, r := range results {
		content := r.Content
		if content == "" {
			content = r.Snippet
		}

		items = append(items, news.Item{
			Title:     orDefault(r.Title, defaultTitle),
			Content:   content,
			URL:       orDefault(r.URL, defaultURL),
			Source:    orDefault(r.Source, defaultSource),
			Date:      orDefault(r.PublishedDate, today),
			Sentiment: ClassifySentiment(content),
		})
	}

	return items
}

// Sources lists the citations shown under an assistant message
func Sources(results []news.RawResult) []chat.Source {
	sources := make([]chat.Source, 0, len(results))
	for _, r := range results {
		sources = append(sources, chat.Source{
			Title:         orDefault(r.Title, defaultTitle),
			URL:           orDefault(r.URL, defaultURL),
			PublishedDate: orDefault(r.PublishedDate, unknownDate),
			Source:        orDefault(r.Source, unknownSource),
		})
	}
	return sources
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
