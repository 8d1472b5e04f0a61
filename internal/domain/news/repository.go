package news

import (
	"context"
	"time"
)

// Archive defines the interface for the news archive (ClickHouse)
type Archive interface {
	InsertArticles(ctx context.Context, articles []Article) error
	GetLatest(ctx context.Context, limit int) ([]Article, error)
	GetSince(ctx context.Context, since time.Time) ([]Article, error)
}

// SearchCache stores search responses keyed by query (Redis).
// Get returns errors.ErrCacheMiss when nothing is stored.
type SearchCache interface {
	Get(ctx context.Context, query string) (*SearchResponse, error)
	Set(ctx context.Context, query string, resp *SearchResponse) error
}
