// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import "strings"

// arXiv Atom feed XML structures. The comment field lives in the
// provider-specific namespace http://arxiv.org/schemas/atom.
type feed struct {
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []feedAuthor   `xml:"author"`
	Categories []feedCategory `xml:"category"`
	Comment    string         `xml:"http://arxiv.org/schemas/atom comment"`
}

type feedAuthor struct {
	Name string `xml:"name"`
}

type feedCategory struct {
	Term string `xml:"term,attr"`
}

// fieldOr returns the trimmed field value, or fallback when the field is
// absent or blank. Absence is normal in the feed, never an error.
func fieldOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
