// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-digest pipeline.
package types

import "time"

// Placeholder values used when a feed entry omits a field.
const (
	PlaceholderTitle    = "(untitled)"
	PlaceholderAbstract = "(no abstract provided)"
)

// Paper is the canonical record for one arXiv paper. It is immutable once
// normalized; the enrichment fields are filled in after the record's first
// insertion into a Collection and are never overwritten by later keywords.
type Paper struct {
	// ID is the arXiv identifier including the version suffix
	// (e.g. "2403.01234v1"). It is the deduplication key.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, or PlaceholderTitle when the feed omits it.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order. May be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Published is the publication date truncated to UTC day granularity.
	Published time.Time `json:"published" yaml:"published"`

	// Abstract is the paper abstract, or PlaceholderAbstract when omitted.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the subject classification tags in source order.
	Categories []string `json:"categories" yaml:"categories"`

	// Comment is the optional author remarks field (arxiv:comment).
	// Empty when the entry carries none.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// SourceURL is the canonical abstract page for the paper.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// PDFURL is the direct PDF link for the paper.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Translation is the AI-translated abstract. Empty until enrichment.
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`

	// Contribution is the AI-generated one-line contribution summary.
	// Empty until enrichment.
	Contribution string `json:"contribution,omitempty" yaml:"contribution,omitempty"`
}

// PublishedDate returns the publication date formatted as YYYY-MM-DD.
func (p Paper) PublishedDate() string {
	return p.Published.Format("2006-01-02")
}
