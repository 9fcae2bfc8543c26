// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func TestWriteReadDigestFile(t *testing.T) {
	c := NewCollection()
	c.Add("transformer", []types.Paper{paper("2403.1v1", "Shared"), paper("2403.2v1", "T only")})
	c.Add("attention", []types.Paper{paper("2403.1v1", "Shared dup")})
	c.SetEnrichment("2403.2v1", "translated", "contribution")

	path := filepath.Join(t.TempDir(), "digest.yaml")
	if err := WriteFile(path, c, testDate); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Date != "2024-03-15" {
		t.Errorf("Date = %q", f.Date)
	}
	if f.Summary.UniquePapers != 2 {
		t.Errorf("UniquePapers = %d, want 2", f.Summary.UniquePapers)
	}
	if len(f.Sections) != 2 {
		t.Fatalf("Sections = %d, want 2", len(f.Sections))
	}
	if f.Sections[1].Keyword != "attention" || f.Sections[1].Matches != 1 {
		t.Errorf("attention section = %+v", f.Sections[1])
	}
	if len(f.Sections[1].Papers) != 0 {
		t.Errorf("attention claimed %d papers, want 0", len(f.Sections[1].Papers))
	}

	target, err := f.TargetDate()
	if err != nil {
		t.Fatalf("TargetDate: %v", err)
	}
	if !target.Equal(testDate) {
		t.Errorf("TargetDate = %v", target)
	}

	rebuilt := f.Collection()
	if rebuilt.Len() != 2 {
		t.Errorf("rebuilt Len = %d, want 2", rebuilt.Len())
	}
	p, ok := rebuilt.Get("2403.2v1")
	if !ok || p.Translation != "translated" {
		t.Errorf("enrichment lost on reload: %+v", p)
	}
}

func TestReadDigestFileErrors(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
