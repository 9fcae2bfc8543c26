// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv fetches paginated arXiv search results and normalizes them
// into canonical paper records filtered to a single publication date.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// backoffBase controls the base duration for exponential backoff between
// page-fetch attempts. Tests override this to avoid real sleeps.
var backoffBase = 3 * time.Second

const (
	defaultPageSize   = 10
	defaultMaxRetries = 3

	// maxPageSize is the provider-imposed cap on max_results.
	maxPageSize = 2000
)

// Client queries the arXiv API for one keyword at a time.
type Client struct {
	HTTP *http.Client
	Cfg  types.FetchConfig
}

// NewClient returns a Client with defaulted page size and retry budget.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.PageSize > maxPageSize {
		cfg.PageSize = maxPageSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		Cfg:  cfg,
	}
}

// buildSearchQuery constructs the search_query expression for one keyword:
// the keyword against title and abstract, restricted to CS categories.
func buildSearchQuery(keyword string) string {
	// Embedded quotes would unbalance the phrase expression.
	kw := strings.ReplaceAll(strings.TrimSpace(keyword), `"`, "")
	return fmt.Sprintf(`(ti:%q OR abs:%q) AND cat:cs.*`, kw, kw)
}

// FetchPage fetches one page of raw entries for keyword at the zero-based
// offset start. Transport failures, non-200 responses, and malformed
// payloads are retried with exponential backoff up to the configured
// budget; exhaustion returns the last error. An empty entry list is a
// normal response meaning end-of-results and is never retried.
func (c *Client) FetchPage(ctx context.Context, keyword string, start int) ([]feedEntry, error) {
	var lastErr error
	for attempt := 0; attempt <= c.Cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		entries, err := c.fetchOnce(ctx, keyword, start)
		if err == nil {
			return entries, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.Cfg.MaxRetries, lastErr)
}

// fetchOnce performs a single arXiv API request and decodes the feed.
func (c *Client) fetchOnce(ctx context.Context, keyword string, start int) ([]feedEntry, error) {
	params := url.Values{
		"search_query": {buildSearchQuery(keyword)},
		"start":        {strconv.Itoa(start)},
		"max_results":  {strconv.Itoa(c.Cfg.PageSize)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	reqURL := apiBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.Cfg.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return f.Entries, nil
}
