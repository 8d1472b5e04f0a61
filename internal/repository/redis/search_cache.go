package redis

import (
	"context"
	"time"

	redisadapter "github.com/ahmadnadir/gasnadir/internal/adapters/redis"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Compile-time check
var _ news.SearchCache = (*SearchCache)(nil)

const searchKeyPrefix = "news:search:"

// SearchCache stores news search responses for ttl
type SearchCache struct {
	client *redisadapter.Client
	ttl    time.Duration
}

// NewSearchCache creates a search cache. A non-positive ttl keeps entries
// forever.
func NewSearchCache(client *redisadapter.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{client: client, ttl: max(ttl, 0)}
}

// Get returns errors.ErrCacheMiss when nothing is stored for query
func (c *SearchCache) Get(ctx context.Context, query string) (*news.SearchResponse, error) {
	var resp news.SearchResponse
	if err := c.client.Get(ctx, searchKeyPrefix+query, &resp); err != nil {
		if errors.Is(err, errors.ErrCacheMiss) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to read search cache: query=%s", query)
	}
	return &resp, nil
}

func (c *SearchCache) Set(ctx context.Context, query string, resp *news.SearchResponse) error {
	if err := c.client.Set(ctx, searchKeyPrefix+query, resp, c.ttl); err != nil {
		return errors.Wrapf(err, "failed to write search cache: query=%s", query)
	}
	return nil
}
