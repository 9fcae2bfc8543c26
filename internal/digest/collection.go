// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest merges per-keyword fetch results into a deduplicated
// collection and renders it as a display-ready digest.
package digest

import (
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Collection accumulates papers across keyword searches, keyed by arXiv ID.
// A paper matched by several keywords is stored once, attributed to the
// keyword that inserted it first; later matches only bump that keyword's
// tally. Existing entries are never overwritten, so enrichment attached
// after first insertion survives duplicate fetches.
type Collection struct {
	papers  map[string]types.Paper
	order   []string            // unique IDs in insertion order
	claimed map[string][]string // keyword → IDs it inserted first
	matched map[string]int      // keyword → total matches, duplicates included
	// keywords preserves processing order for rendering.
	keywords []string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		papers:  make(map[string]types.Paper),
		claimed: make(map[string][]string),
		matched: make(map[string]int),
	}
}

// Add folds one keyword's records into the collection and returns the
// number of papers actually inserted. Records without an ID are discarded.
func (c *Collection) Add(keyword string, papers []types.Paper) int {
	if _, ok := c.matched[keyword]; !ok {
		c.keywords = append(c.keywords, keyword)
		c.matched[keyword] = 0
	}

	inserted := 0
	for _, p := range papers {
		if p.ID == "" {
			continue
		}
		c.matched[keyword]++
		if _, exists := c.papers[p.ID]; exists {
			continue
		}
		c.papers[p.ID] = p
		c.order = append(c.order, p.ID)
		c.claimed[keyword] = append(c.claimed[keyword], p.ID)
		inserted++
	}
	return inserted
}

// Len returns the number of unique papers.
func (c *Collection) Len() int { return len(c.order) }

// Keywords returns the keywords in processing order, including those that
// matched nothing.
func (c *Collection) Keywords() []string { return c.keywords }

// Matched returns how many records the keyword contributed, counting
// duplicates that were already present.
func (c *Collection) Matched(keyword string) int { return c.matched[keyword] }

// Get looks up a paper by ID.
func (c *Collection) Get(id string) (types.Paper, bool) {
	p, ok := c.papers[id]
	return p, ok
}

// Papers returns all unique papers in insertion order.
func (c *Collection) Papers() []types.Paper {
	out := make([]types.Paper, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.papers[id])
	}
	return out
}

// ClaimedBy returns the papers first inserted by the keyword, in insertion
// order. Each paper appears under exactly one keyword.
func (c *Collection) ClaimedBy(keyword string) []types.Paper {
	ids := c.claimed[keyword]
	out := make([]types.Paper, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.papers[id])
	}
	return out
}

// SetEnrichment attaches AI-generated fields to the paper with the given
// ID. It reports whether the paper exists.
func (c *Collection) SetEnrichment(id, translation, contribution string) bool {
	p, ok := c.papers[id]
	if !ok {
		return false
	}
	p.Translation = translation
	p.Contribution = contribution
	c.papers[id] = p
	return true
}
