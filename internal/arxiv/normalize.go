// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const (
	absURLPrefix = "https://arxiv.org/abs/"
	pdfURLPrefix = "https://arxiv.org/pdf/"
)

// normalize converts one raw feed entry into a canonical Paper, or reports
// that the entry should be skipped. Only a missing or unparseable published
// timestamp, a publication date other than targetDate, or an entry that
// yields no identifier cause a skip; every other missing field degrades to
// a placeholder or an empty slice.
func normalize(entry feedEntry, targetDate time.Time) (types.Paper, bool) {
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(entry.Published))
	if err != nil {
		return types.Paper{}, false
	}
	published = published.UTC().Truncate(24 * time.Hour)
	if published.Format("2006-01-02") != targetDate.Format("2006-01-02") {
		return types.Paper{}, false
	}

	id := entryID(entry.ID)
	if id == "" {
		return types.Paper{}, false
	}

	p := types.Paper{
		ID:        id,
		Title:     fieldOr(entry.Title, types.PlaceholderTitle),
		Published: published,
		Abstract:  fieldOr(entry.Summary, types.PlaceholderAbstract),
		Comment:   strings.TrimSpace(entry.Comment),
		SourceURL: absURLPrefix + id,
		PDFURL:    pdfURLPrefix + id + ".pdf",
	}
	for _, a := range entry.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range entry.Categories {
		if term := strings.TrimSpace(c.Term); term != "" {
			p.Categories = append(p.Categories, term)
		}
	}
	return p, true
}

// entryID pulls the arXiv ID from the entry's <id> URL by taking the last
// path segment. The version suffix is kept
// (e.g. "http://arxiv.org/abs/2403.01234v1" → "2403.01234v1").
func entryID(idURL string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(idURL), "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return ""
	}
	return trimmed[idx+1:]
}
