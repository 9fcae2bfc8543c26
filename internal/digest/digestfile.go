// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// File is the on-disk representation of one digest run. A fetch can be
// saved to a file and re-rendered or mailed later without re-querying the
// API. Papers are grouped by the keyword that first claimed them.
type File struct {
	Date     string        `yaml:"date"`
	Keywords []string      `yaml:"keywords"`
	Sections []FileSection `yaml:"sections"`
	Summary  FileSummary   `yaml:"summary"`
}

// FileSection holds one keyword's first-claimed papers and its total match
// count (duplicates already claimed by earlier keywords included).
type FileSection struct {
	Keyword string        `yaml:"keyword"`
	Matches int           `yaml:"matches"`
	Papers  []types.Paper `yaml:"papers,omitempty"`
}

// FileSummary stores result statistics and a timestamp.
type FileSummary struct {
	UniquePapers int       `yaml:"unique_papers"`
	GeneratedAt  time.Time `yaml:"generated_at"`
}

// WriteFile saves the collection and its run statistics to a YAML file.
func WriteFile(path string, c *Collection, target time.Time) error {
	f := File{
		Date:     target.Format(dateFmt),
		Keywords: c.Keywords(),
		Summary: FileSummary{
			UniquePapers: c.Len(),
			GeneratedAt:  time.Now(),
		},
	}
	for _, kw := range c.Keywords() {
		f.Sections = append(f.Sections, FileSection{
			Keyword: kw,
			Matches: c.Matched(kw),
			Papers:  c.ClaimedBy(kw),
		})
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling digest file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a previously saved digest file from disk.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading digest file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing digest file: %w", err)
	}
	return &f, nil
}

// Collection rebuilds an in-memory collection from a saved file. Duplicate
// tallies across keywords collapse to the unique counts recorded in the
// sections.
func (f *File) Collection() *Collection {
	c := NewCollection()
	for _, s := range f.Sections {
		c.Add(s.Keyword, s.Papers)
	}
	return c
}

// TargetDate parses the file's target date.
func (f *File) TargetDate() (time.Time, error) {
	t, err := time.Parse(dateFmt, f.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q in digest file: %w", f.Date, err)
	}
	return t, nil
}
