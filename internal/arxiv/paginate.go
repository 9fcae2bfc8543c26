// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// CollectKeyword pages through arXiv results for one keyword and returns
// every record published on targetDate, in source order.
//
// The offset advances by the number of raw entries received, not the number
// kept, because the API indexes over all entries regardless of date match.
// Pagination ends when a page comes back empty or when a page exhausts its
// retry budget; the latter is reported as a warning on w and the records
// gathered so far are still returned. Neither case is an error to the
// caller; a failed keyword must not abort the run.
func (c *Client) CollectKeyword(ctx context.Context, keyword string, targetDate time.Time, w io.Writer) []types.Paper {
	var papers []types.Paper

	for start := 0; ; {
		entries, err := c.FetchPage(ctx, keyword, start)
		if err != nil {
			fmt.Fprintf(w, "warning: keyword %q: abandoning pagination at offset %d: %v\n", keyword, start, err)
			break
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if p, ok := normalize(entry, targetDate); ok {
				papers = append(papers, p)
			}
		}
		start += len(entries)
	}
	return papers
}
