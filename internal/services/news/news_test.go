package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

var fixedNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

type mockProvider struct{ mock.Mock }

func (m *mockProvider) Search(ctx context.Context, query string) (*news.SearchResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*news.SearchResponse)
	return resp, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, query string) (*news.SearchResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*news.SearchResponse)
	return resp, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, query string, resp *news.SearchResponse) error {
	return m.Called(ctx, query, resp).Error(0)
}

type mockArchive struct{ mock.Mock }

func (m *mockArchive) InsertArticles(ctx context.Context, articles []news.Article) error {
	return m.Called(ctx, articles).Error(0)
}

func (m *mockArchive) GetLatest(ctx context.Context, limit int) ([]news.Article, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]news.Article), args.Error(1)
}

func (m *mockArchive) GetSince(ctx context.Context, since time.Time) ([]news.Article, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]news.Article), args.Error(1)
}

func testConfig() SearcherConfig {
	return SearcherConfig{MaxRetries: 2, RetryDelay: time.Millisecond, FetchTimeout: time.Second}
}

func liveResponse() *news.SearchResponse {
	return &news.SearchResponse{
		Query:  "glove demand",
		Origin: news.OriginTavily,
		Results: []news.RawResult{
			{Title: "Glove demand recovers", Content: "growth", URL: "https://a", PublishedDate: "2025-05-18"},
		},
	}
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    news.Sentiment
	}{
		{"three positive one negative", "Strong growth and profit drive recovery despite one concern", news.SentimentPositive},
		{"two positive one negative", "growth and profit despite risk", news.SentimentNeutral},
		{"negative lead", "A crisis, a loss and a sharp decline", news.SentimentNegative},
		{"repeated term counts once", "decline decline decline", news.SentimentNeutral},
		{"case insensitive", "GROWTH PROFIT", news.SentimentPositive},
		{"empty", "", news.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySentiment(tt.content))
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	items := Normalize([]news.RawResult{
		{},
		{Title: "T", Snippet: "only snippet, growth and profit", URL: "https://x", Source: "S", PublishedDate: "2025-01-02"},
	}, fixedNow)

	require.Len(t, items, 2)
	assert.Equal(t, news.Item{
		Title:     "Untitled Article",
		Content:   "",
		URL:       "#",
		Source:    "News Source",
		Date:      "2025-05-20",
		Sentiment: news.SentimentNeutral,
	}, items[0])
	assert.Equal(t, "only snippet, growth and profit", items[1].Content)
	assert.Equal(t, news.SentimentPositive, items[1].Sentiment)
	assert.Equal(t, "2025-01-02", items[1].Date)
}

func TestSourcesDefaults(t *testing.T) {
	sources := Sources([]news.RawResult{{}})
	require.Len(t, sources, 1)
	assert.Equal(t, "Untitled Article", sources[0].Title)
	assert.Equal(t, "#", sources[0].URL)
	assert.Equal(t, "Unknown date", sources[0].PublishedDate)
	assert.Equal(t, "Unknown source", sources[0].Source)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	s := NewSearcher(&mockProvider{}, nil, nil, testConfig())
	_, err := s.Search(context.Background(), "   ")
	assert.Equal(t, errors.ErrEmptyQuery, err)
}

func TestSearchRetriesThenSucceeds(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, "glove demand").Return(nil, errors.ErrNewsUnavailable).Twice()
	provider.On("Search", mock.Anything, "glove demand").Return(liveResponse(), nil).Once()

	archive := &mockArchive{}
	archive.On("InsertArticles", mock.Anything, mock.MatchedBy(func(a []news.Article) bool {
		return len(a) == 1 && a[0].Origin == "tavily" && a[0].Query == "glove demand" && a[0].Sentiment == "neutral"
	})).Return(nil).Once()

	s := NewSearcher(provider, nil, archive, testConfig()).WithClock(func() time.Time { return fixedNow })
	resp, err := s.Search(context.Background(), "glove demand")

	require.NoError(t, err)
	assert.Equal(t, news.OriginTavily, resp.Origin)
	provider.AssertNumberOfCalls(t, "Search", 3)
	archive.AssertExpectations(t)
}

func TestSearchFallsBackToMockAfterRetries(t *testing.T) {
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, "rubber glove outlook").Return(nil, errors.ErrNewsUnavailable)

	archive := &mockArchive{}
	s := NewSearcher(provider, nil, archive, testConfig()).WithClock(func() time.Time { return fixedNow })

	resp, err := s.Search(context.Background(), "rubber glove outlook")

	require.NoError(t, err)
	assert.Equal(t, news.OriginMock, resp.Origin)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "2025-05-20", resp.Results[0].PublishedDate)
	provider.AssertNumberOfCalls(t, "Search", 3)
	archive.AssertNotCalled(t, "InsertArticles", mock.Anything, mock.Anything)
}

func TestSearchServesFromCache(t *testing.T) {
	cached := liveResponse()
	cache := &mockCache{}
	cache.On("Get", mock.Anything, "glove demand").Return(cached, nil)

	provider := &mockProvider{}
	s := NewSearcher(provider, cache, nil, testConfig())

	resp, err := s.Search(context.Background(), "  Glove   DEMAND ")

	require.NoError(t, err)
	assert.Equal(t, news.OriginCache, resp.Origin)
	provider.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchStoresOnCacheMiss(t *testing.T) {
	live := liveResponse()
	cache := &mockCache{}
	cache.On("Get", mock.Anything, "glove demand").Return(nil, errors.ErrCacheMiss)
	cache.On("Set", mock.Anything, "glove demand", live).Return(nil).Once()

	provider := &mockProvider{}
	provider.On("Search", mock.Anything, "glove demand").Return(live, nil)

	s := NewSearcher(provider, cache, nil, testConfig())
	resp, err := s.Search(context.Background(), "glove demand")

	require.NoError(t, err)
	assert.Same(t, live, resp)
	cache.AssertExpectations(t)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := &mockProvider{}
	provider.On("Search", mock.Anything, "q").Run(func(mock.Arguments) { cancel() }).Return(nil, context.Canceled)

	s := NewSearcher(provider, nil, nil, testConfig())
	_, err := s.Search(ctx, "q")

	assert.True(t, errors.Is(err, context.Canceled))
}

func TestToArticlesParsesDates(t *testing.T) {
	resp := &news.SearchResponse{
		Origin: news.OriginRSS,
		Results: []news.RawResult{
			{Title: "a", PublishedDate: "2025-05-01"},
			{Title: "b", PublishedDate: "2025-05-02T08:00:00Z"},
			{Title: "c", PublishedDate: "yesterday"},
		},
	}

	articles := ToArticles("q", resp, fixedNow)

	require.Len(t, articles, 3)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), articles[0].PublishedAt)
	assert.Equal(t, time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC), articles[1].PublishedAt)
	assert.Equal(t, fixedNow, articles[2].PublishedAt)
	assert.Equal(t, "rss", articles[0].Origin)
	assert.NotEqual(t, articles[0].ID, articles[1].ID)
}
