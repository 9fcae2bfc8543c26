// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	backoffBase = 1 * time.Millisecond
}

// atomEntry renders one feed entry with the given id and published timestamp.
func atomEntry(id, published string) string {
	return fmt.Sprintf(`<entry>
  <id>http://arxiv.org/abs/%s</id>
  <title>Paper %s</title>
  <summary>Abstract of %s.</summary>
  <published>%s</published>
  <author><name>First Author</name></author>
  <category term="cs.LG"/>
  <arxiv:comment>accepted somewhere</arxiv:comment>
</entry>`, id, id, id, published)
}

// atomFeed wraps entries into a minimal arXiv Atom response.
func atomFeed(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
` + strings.Join(entries, "\n") + `
</feed>`
}

func testClient(serverURL string) *Client {
	c := NewClient(types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "arxiv-digest-test/0.1"},
		PageSize:   2,
		MaxRetries: 3,
	})
	apiBase = serverURL
	return c
}

func TestFetchPageSuccess(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		assert.Equal(t, "0", r.URL.Query().Get("start"))
		assert.Equal(t, "2", r.URL.Query().Get("max_results"))
		assert.Equal(t, "submittedDate", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "descending", r.URL.Query().Get("sortOrder"))
		fmt.Fprint(w, atomFeed(
			atomEntry("2403.01234v1", "2024-03-15T01:02:03Z"),
			atomEntry("2403.05678v1", "2024-03-15T04:05:06Z"),
		))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	entries, err := c.FetchPage(context.Background(), "large language model", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "http://arxiv.org/abs/2403.01234v1", entries[0].ID)
	assert.Equal(t, "accepted somewhere", strings.TrimSpace(entries[0].Comment))
	assert.Contains(t, gotQuery, `ti:"large language model"`)
	assert.Contains(t, gotQuery, `abs:"large language model"`)
	assert.Contains(t, gotQuery, "cat:cs.*")
}

func TestFetchPageEmptyFeedIsNotRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, atomFeed())
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	entries, err := c.FetchPage(context.Background(), "transformer", 40)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchPageRetriesThenSucceeds(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, atomFeed(atomEntry("2403.01234v1", "2024-03-15T01:02:03Z")))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	entries, err := c.FetchPage(context.Background(), "transformer", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchPageMalformedPayloadIsRetried(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			fmt.Fprint(w, "<feed><entry><unclosed")
			return
		}
		fmt.Fprint(w, atomFeed(atomEntry("2403.01234v1", "2024-03-15T01:02:03Z")))
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	entries, err := c.FetchPage(context.Background(), "transformer", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetchPageExhaustsRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.FetchPage(context.Background(), "transformer", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	// 1 initial + 3 retries = 4 total calls.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestFetchPageContextCancelledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := backoffBase
	backoffBase = 500 * time.Millisecond
	defer func() { backoffBase = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := testClient(ts.URL)
	_, err := c.FetchPage(ctx, "transformer", 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildSearchQuery(t *testing.T) {
	q := buildSearchQuery(` diffusion "models" `)
	assert.Equal(t, `(ti:"diffusion models" OR abs:"diffusion models") AND cat:cs.*`, q)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(types.FetchConfig{})
	assert.Equal(t, defaultPageSize, c.Cfg.PageSize)
	assert.Equal(t, defaultMaxRetries, c.Cfg.MaxRetries)

	capped := NewClient(types.FetchConfig{PageSize: 99999})
	assert.Equal(t, maxPageSize, capped.Cfg.PageSize)
}
