package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Compile-time check
var _ news.Archive = (*NewsRepository)(nil)

// DefaultNewsTable holds search results and RSS items
const DefaultNewsTable = "news_articles"

// NewsRepository implements news.Archive using ClickHouse
type NewsRepository struct {
	conn  driver.Conn
	table string
}

// NewNewsRepository creates a news archive over table. Empty means
// DefaultNewsTable.
func NewNewsRepository(conn driver.Conn, table string) *NewsRepository {
	if table == "" {
		table = DefaultNewsTable
	}
	return &NewsRepository{conn: conn, table: table}
}

// EnsureSchema creates the archive table. Rows with the same URL collapse
// on merge, keeping the latest collection.
func (r *NewsRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           String,
			origin       LowCardinality(String),
			query        String,
			title        String,
			content      String,
			url          String,
			source       LowCardinality(String),
			sentiment    LowCardinality(String),
			published_at DateTime64(3, 'UTC'),
			collected_at DateTime64(3, 'UTC')
		) ENGINE = ReplacingMergeTree(collected_at)
		PARTITION BY toYYYYMM(published_at)
		ORDER BY (url, origin)`, r.table)

	return errors.Wrap(r.conn.Exec(ctx, query), "create news archive table")
}

// InsertArticles writes articles in one batch
func (r *NewsRepository) InsertArticles(ctx context.Context, articles []news.Article) error {
	if len(articles) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+r.table)
	if err != nil {
		return errors.Wrap(err, "prepare news batch")
	}

	for i := range articles {
		if err := batch.AppendStruct(&articles[i]); err != nil {
			_ = batch.Abort()
			return errors.Wrapf(err, "append article %s", articles[i].URL)
		}
	}

	return errors.Wrap(batch.Send(), "send news batch")
}

// GetLatest returns the most recently published articles
func (r *NewsRepository) GetLatest(ctx context.Context, limit int) ([]news.Article, error) {
	var articles []news.Article

	query := fmt.Sprintf(`
		SELECT id, origin, query, title, content, url, source, sentiment, published_at, collected_at
		FROM %s FINAL
		ORDER BY published_at DESC
		LIMIT ?`, r.table)

	if err := r.conn.Select(ctx, &articles, query, limit); err != nil {
		return nil, errors.Wrap(err, "select latest news")
	}
	return articles, nil
}

// GetSince returns articles published at or after since, newest first
func (r *NewsRepository) GetSince(ctx context.Context, since time.Time) ([]news.Article, error) {
	var articles []news.Article

	query := fmt.Sprintf(`
		SELECT id, origin, query, title, content, url, source, sentiment, published_at, collected_at
		FROM %s FINAL
		WHERE published_at >= ?
		ORDER BY published_at DESC`, r.table)

	if err := r.conn.Select(ctx, &articles, query, since); err != nil {
		return nil, errors.Wrap(err, "select news since")
	}
	return articles, nil
}
