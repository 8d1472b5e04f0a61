package rss

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

const (
	userAgent     = "gasnadir-news-collector/1.0"
	maxSummaryLen = 1000
)

// Fetcher downloads and parses RSS or Atom feeds
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given HTTP client timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the feed's items as search-style results. Source is the
// feed title, or the feed URL when the feed has no title.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]news.RawResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create feed request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNewsUnavailable, "fetch feed %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrNewsUnavailable, "feed %s returned HTTP %d", url, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse feed %s", url)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = url
	}

	results := make([]news.RawResult, 0, len(feed.Items))
	for _, item := range feed.Items {
		results = append(results, convertItem(item, source))
	}
	return results, nil
}

// convertItem prefers the description over the full content. Items
// without a date are left undated for the caller to default.
func convertItem(item *gofeed.Item, source string) news.RawResult {
	published := ""
	switch {
	case item.PublishedParsed != nil:
		published = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		published = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	summary := strings.TrimSpace(item.Description)
	if summary == "" {
		summary = truncate(strings.TrimSpace(item.Content), maxSummaryLen)
	}

	return news.RawResult{
		Title:         strings.TrimSpace(item.Title),
		Content:       summary,
		URL:           item.Link,
		Source:        source,
		PublishedDate: published,
	}
}

// truncate shortens s to maxLen runes, adding "..." when cut
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
