package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/adapters/ratelimit"
	"github.com/ahmadnadir/gasnadir/internal/domain/news"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

const DefaultBaseURL = "https://api.tavily.com"

// Config configures the Tavily search client
type Config struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration // per request
	MaxResults  int
	SearchDepth string
}

// Client calls the Tavily search API
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

// NewClient creates a search client. limiter may be nil.
func NewClient(cfg Config, limiter *ratelimit.Limiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.SearchDepth == "" {
		cfg.SearchDepth = "advanced"
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		log:        logger.Get().With("component", "tavily"),
	}
}

type searchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	IncludeDomains    []string `json:"include_domains"`
	ExcludeDomains    []string `json:"exclude_domains"`
	MaxResults        int      `json:"max_results"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeImages     bool     `json:"include_images"`
	IncludeRawContent bool     `json:"include_raw_content"`
}

// Search runs one search. Every failure wraps errors.ErrNewsUnavailable.
func (c *Client) Search(ctx context.Context, query string) (*news.SearchResponse, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrNewsUnavailable, "tavily api key is not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrNewsUnavailable, err.Error())
		}
	}

	body, err := json.Marshal(searchRequest{
		Query:          query,
		SearchDepth:    c.cfg.SearchDepth,
		IncludeDomains: []string{},
		ExcludeDomains: []string{},
		MaxResults:     c.cfg.MaxResults,
		IncludeAnswer:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal search request")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNewsUnavailable, "tavily request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warnw("Tavily API error", "status", resp.StatusCode, "body", string(detail))
		return nil, errors.Wrapf(errors.ErrNewsUnavailable, "tavily status %d", resp.StatusCode)
	}

	var out news.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrapf(errors.ErrNewsUnavailable, "decode tavily response: %v", err)
	}
	if out.Results == nil {
		return nil, errors.Wrap(errors.ErrNewsUnavailable, "invalid tavily response structure")
	}
	if out.Query == "" {
		out.Query = query
	}
	out.Origin = news.OriginTavily

	return &out, nil
}
