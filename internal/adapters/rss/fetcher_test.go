package rss

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Malaysia Energy Wire</title>
    <item>
      <title> Glove makers expand capacity </title>
      <link>https://example.com/gloves</link>
      <description>Rubber glove exports show strong growth.</description>
      <pubDate>Mon, 19 May 2025 08:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Gas tariff review</title>
      <link>https://example.com/tariff</link>
    </item>
  </channel>
</rss>`

func TestFetchParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, feedXML)
	}))
	defer server.Close()

	results, err := NewFetcher(time.Second).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Glove makers expand capacity", results[0].Title)
	assert.Equal(t, "Rubber glove exports show strong growth.", results[0].Content)
	assert.Equal(t, "Malaysia Energy Wire", results[0].Source)
	assert.Equal(t, "2025-05-19T08:30:00Z", results[0].PublishedDate)
	assert.Empty(t, results[1].PublishedDate)
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewFetcher(time.Second).Fetch(context.Background(), server.URL)
	assert.True(t, errors.Is(err, errors.ErrNewsUnavailable))
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(time.Second).Fetch(ctx, "http://127.0.0.1:1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdef...", truncate(strings.Repeat("abcdef", 3), 9))
	assert.Equal(t, "ééé...", truncate(strings.Repeat("é", 10), 6))
}
