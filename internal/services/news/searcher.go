package news

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadnadir/gasnadir/internal/adapters/retry"
	"github.com/ahmadnadir/gasnadir/internal/adapters/tavily"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

// Provider performs a single upstream news search
type Provider interface {
	Search(ctx context.Context, query string) (*news.SearchResponse, error)
}

// SearcherConfig tunes the retry loop around the provider
type SearcherConfig struct {
	MaxRetries   int
	RetryDelay   time.Duration
	FetchTimeout time.Duration
}

// Searcher resolves a query to news, trying the cache, then the provider
// with bounded retries, then the offline payload.
type Searcher struct {
	provider Provider
	cache    news.SearchCache // optional
	archive  news.Archive     // optional
	retry    *retry.Policy
	timeout  time.Duration
	now      func() time.Time
	log      *logger.Logger
}

// NewSearcher creates a searcher. cache and archive may be nil.
func NewSearcher(provider Provider, cache news.SearchCache, archive news.Archive, cfg SearcherConfig) *Searcher {
	s := &Searcher{
		provider: provider,
		cache:    cache,
		archive:  archive,
		timeout:  cfg.FetchTimeout,
		now:      time.Now,
		log:      logger.Get().With("component", "news_searcher"),
	}
	s.retry = retry.New(retry.Config{
		MaxRetries: cfg.MaxRetries,
		Delay:      cfg.RetryDelay,
		Strategy:   retry.StrategyFixed,
		OnRetry: func(attempt int, err error) {
			s.log.Warnw("News search failed, retrying",
				"attempt", attempt,
				"attempts_left", cfg.MaxRetries-attempt+1,
				"error", err,
			)
		},
	})
	return s
}

// WithClock replaces the clock used for mock dates and archive timestamps
func (s *Searcher) WithClock(now func() time.Time) *Searcher {
	if now != nil {
		s.now = now
	}
	return s
}

// Search returns news for query. Upstream failures are never surfaced: once
// retries are exhausted the offline payload is returned instead. Errors are
// limited to an empty query and a cancelled context.
func (s *Searcher) Search(ctx context.Context, query string) (*news.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.ErrEmptyQuery
	}

	if resp := s.fromCache(ctx, query); resp != nil {
		return resp, nil
	}

	start := time.Now()
	resp, err := retry.Do(ctx, s.retry, func(ctx context.Context, _ int) (*news.SearchResponse, error) {
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.provider.Search(ctx, query)
	})
	metrics.RecordNewsSearch(string(news.OriginTavily), time.Since(start), err)

	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "news search cancelled")
		}
		s.log.Warnw("News search unavailable, serving offline payload", "query", query, "error", err)
		metrics.RecordNewsSearch(string(news.OriginMock), 0, nil)
		return tavily.MockResponse(query, s.now()), nil
	}

	s.store(ctx, query, resp)
	return resp, nil
}

func (s *Searcher) fromCache(ctx context.Context, query string) *news.SearchResponse {
	if s.cache == nil {
		return nil
	}

	start := time.Now()
	resp, err := s.cache.Get(ctx, CacheKey(query))
	if err != nil {
		if !errors.Is(err, errors.ErrCacheMiss) {
			s.log.Warnw("Search cache lookup failed", "error", err)
		}
		return nil
	}

	metrics.RecordNewsSearch(string(news.OriginCache), time.Since(start), nil)
	resp.Origin = news.OriginCache
	return resp
}

// store caches and archives a live response. Both are best-effort.
func (s *Searcher) store(ctx context.Context, query string, resp *news.SearchResponse) {
	if s.cache != nil {
		if err := s.cache.Set(ctx, CacheKey(query), resp); err != nil {
			s.log.Warnw("Failed to cache search response", "error", err)
		}
	}

	if s.archive == nil || len(resp.Results) == 0 {
		return
	}

	articles := ToArticles(query, resp, s.now())
	if err := s.archive.InsertArticles(ctx, articles); err != nil {
		s.log.Warnw("Failed to archive search results", "count", len(articles), "error", err)
		return
	}
	metrics.RecordArchived(string(resp.Origin), len(articles))
}

// CacheKey normalizes a query so equivalent spellings share a cache entry
func CacheKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// ToArticles converts a search response into archive rows
func ToArticles(query string, resp *news.SearchResponse, now time.Time) []news.Article {
	items := Normalize(resp.Results, now)
	articles := make([]news.Article, 0, len(items))

	for _, item := range items {
		published, err := time.Parse(time.DateOnly, item.Date)
		if err != nil {
			published, err = time.Parse(time.RFC3339, item.Date)
			if err != nil {
				published = now
			}
		}

		articles = append(articles, news.Article{
			ID:          uuid.NewString(),
			Origin:      string(resp.Origin),
			Query:       query,
			Title:       item.Title,
			Content:     item.Content,
			URL:         item.URL,
			Source:      item.Source,
			Sentiment:   string(item.Sentiment),
			PublishedAt: published.UTC(),
			CollectedAt: now.UTC(),
		})
	}

	return articles
}
