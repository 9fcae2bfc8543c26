// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const (
	dateFmt   = "2006-01-02"
	ruleHeavy = "=================================================="
	ruleLight = "----------------------------------------------------------------------"
)

// Subject returns the email subject line for a run.
func Subject(c *Collection, target time.Time) string {
	date := target.Format(dateFmt)
	if c.Len() == 0 {
		return fmt.Sprintf("ArXiv Daily Digest - %s - no papers found", date)
	}
	return fmt.Sprintf("ArXiv Daily Digest - %s - %d papers", date, c.Len())
}

// Render formats the merged collection into a single plain-text digest:
// an overview with per-keyword tallies, then one section per keyword
// listing the papers that keyword found first. An empty collection renders
// a short notice instead.
func Render(c *Collection, target time.Time) string {
	date := target.Format(dateFmt)
	var b strings.Builder

	if c.Len() == 0 {
		fmt.Fprintf(&b, "[ArXiv Daily Digest] %s\n%s\n\n", date, ruleHeavy)
		fmt.Fprintf(&b, "No papers published on %s matched these keywords:\n\n", date)
		for _, kw := range c.Keywords() {
			fmt.Fprintf(&b, "  - %s\n", kw)
		}
		fmt.Fprintf(&b, "\nThe keywords stay monitored; new papers will show up in the next digest.\n%s\n", ruleHeavy)
		return b.String()
	}

	fmt.Fprintf(&b, "[ArXiv Daily Digest] %s  keywords: %s\n%s\n\n",
		date, strings.Join(c.Keywords(), ", "), ruleHeavy)
	fmt.Fprintf(&b, "Overview:\n  - %d unique papers published %s\n", c.Len(), date)
	for _, kw := range c.Keywords() {
		if n := c.Matched(kw); n > 0 {
			fmt.Fprintf(&b, "  - keyword %q: %d matches\n", kw, n)
		}
	}
	fmt.Fprintf(&b, "%s\n", ruleHeavy)

	for _, kw := range c.Keywords() {
		papers := c.ClaimedBy(kw)
		if len(papers) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\nKeyword: %s (%d papers)\n%s\n", ruleHeavy, kw, len(papers), ruleHeavy)
		for _, p := range papers {
			b.WriteString(renderPaper(p))
		}
	}
	return b.String()
}

// renderPaper formats one paper block.
func renderPaper(p types.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ruleLight)
	fmt.Fprintf(&b, "Title:      %s\n", p.Title)
	fmt.Fprintf(&b, "Authors:    %s\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(&b, "Categories: %s\n", strings.Join(p.Categories, ", "))
	fmt.Fprintf(&b, "Published:  %s\n", p.PublishedDate())
	if p.Comment != "" {
		fmt.Fprintf(&b, "Comment:    %s\n", p.Comment)
	}
	fmt.Fprintf(&b, "Link:       %s\n", p.SourceURL)
	fmt.Fprintf(&b, "PDF:        %s\n\n", p.PDFURL)

	if p.Contribution != "" {
		fmt.Fprintf(&b, "*** Contribution ***\n%s\n\n", p.Contribution)
	}
	fmt.Fprintf(&b, "*** Abstract ***\n%s\n\n", p.Abstract)
	if p.Translation != "" {
		fmt.Fprintf(&b, "*** Translated Abstract ***\n%s\n\n", p.Translation)
	}
	fmt.Fprintf(&b, "%s\n", ruleLight)
	return b.String()
}

// RenderJSON writes the unique papers as indented JSON to w.
func RenderJSON(c *Collection, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Papers())
}
