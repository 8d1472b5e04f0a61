package news

import (
	"context"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/adapters/kafka"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	newsvc "github.com/ahmadnadir/gasnadir/internal/services/news"
	"github.com/ahmadnadir/gasnadir/internal/workers"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// FeedFetcher returns the current items of one feed
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]news.RawResult, error)
}

// Publisher announces collected batches
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, event interface{}) error
}

// CollectedEvent is published once per feed with new items
type CollectedEvent struct {
	Feed        string             `json:"feed"`
	Count       int                `json:"count"`
	Headlines   []CollectedArticle `json:"headlines"`
	CollectedAt time.Time          `json:"collectedAt"`
}

type CollectedArticle struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Sentiment string `json:"sentiment"`
}

// Collector periodically pulls the configured RSS feeds, classifies each
// item's sentiment and archives it
type Collector struct {
	*workers.BaseWorker
	feeds     []string
	fetcher   FeedFetcher
	archive   news.Archive
	publisher Publisher
	now       func() time.Time

	seen map[string]struct{}
}

// NewCollector creates the RSS collector. publisher may be nil. The worker
// is disabled when there is no feed or no archive.
func NewCollector(feeds []string, fetcher FeedFetcher, archive news.Archive, publisher Publisher, interval time.Duration, enabled bool) *Collector {
	enabled = enabled && len(feeds) > 0 && archive != nil
	return &Collector{
		BaseWorker: workers.NewBaseWorker("rss_collector", interval, enabled),
		feeds:      feeds,
		fetcher:    fetcher,
		archive:    archive,
		publisher:  publisher,
		now:        time.Now,
		seen:       map[string]struct{}{},
	}
}

// WithClock overrides the collection timestamp source
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.now = now
	return c
}

// Run collects every feed once. A failing feed does not stop the others;
// all failures are returned together.
func (c *Collector) Run(ctx context.Context) error {
	var errs errors.MultiError
	total := 0

	for _, feed := range c.feeds {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := c.collect(ctx, feed)
		if err != nil {
			c.Log().Warnw("Feed collection failed", "feed", feed, "error", err)
			errs.Add(errors.Wrapf(err, "feed %s", feed))
			continue
		}
		total += n
	}

	c.Log().Infow("RSS collection finished", "feeds", len(c.feeds), "archived", total, "failed", len(errs.Errors))
	return errs.ToError()
}

func (c *Collector) collect(ctx context.Context, feed string) (int, error) {
	results, err := c.fetcher.Fetch(ctx, feed)
	if err != nil {
		return 0, err
	}

	fresh := results[:0:0]
	for _, r := range results {
		key := r.URL
		if key == "" {
			key = r.Title
		}
		if _, dup := c.seen[key]; dup {
			continue
		}
		fresh = append(fresh, r)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	now := c.now()
	articles := newsvc.ToArticles("", &news.SearchResponse{Origin: news.OriginRSS, Results: fresh}, now)
	if err := c.archive.InsertArticles(ctx, articles); err != nil {
		return 0, errors.Wrap(err, "archive feed items")
	}
	for _, r := range fresh {
		key := r.URL
		if key == "" {
			key = r.Title
		}
		c.seen[key] = struct{}{}
	}
	metrics.RecordArchived(string(news.OriginRSS), len(articles))

	c.announce(ctx, feed, articles, now)
	return len(articles), nil
}

func (c *Collector) announce(ctx context.Context, feed string, articles []news.Article, now time.Time) {
	if c.publisher == nil {
		return
	}

	ev := CollectedEvent{Feed: feed, Count: len(articles), CollectedAt: now}
	for _, a := range articles {
		ev.Headlines = append(ev.Headlines, CollectedArticle{Title: a.Title, URL: a.URL, Sentiment: a.Sentiment})
	}
	if err := c.publisher.Publish(ctx, kafka.TopicNewsCollected, feed, ev); err != nil {
		c.Log().Warnw("Failed to publish collected news", "feed", feed, "error", err)
	}
}
