// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

func init() {
	backoffBase = 1 * time.Millisecond
}

// mockBackend echoes a canned reply, optionally failing the first failN
// calls or failing prompts containing failMatch.
type mockBackend struct {
	calls     int
	failN     int
	failMatch string
	prompts   []string
}

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.calls <= m.failN {
		return "", fmt.Errorf("transient failure %d", m.calls)
	}
	if m.failMatch != "" && strings.Contains(prompt, m.failMatch) {
		return "", fmt.Errorf("prompt rejected")
	}
	return " generated reply ", nil
}

func testCollection(abstracts ...string) *digest.Collection {
	c := digest.NewCollection()
	var papers []types.Paper
	for i, a := range abstracts {
		papers = append(papers, types.Paper{
			ID:        fmt.Sprintf("2403.%05dv1", i),
			Title:     fmt.Sprintf("Paper %d", i),
			Abstract:  a,
			Published: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		})
	}
	c.Add("transformer", papers)
	return c
}

func TestEnrichAllSetsBothFields(t *testing.T) {
	c := testCollection("We propose a method.")
	backend := &mockBackend{}
	var buf bytes.Buffer

	n := EnrichAll(context.Background(), backend, c, types.EnrichConfig{}, &buf)
	if n != 1 {
		t.Fatalf("enriched = %d, want 1", n)
	}
	p, _ := c.Get("2403.00000v1")
	if p.Translation != "generated reply" || p.Contribution != "generated reply" {
		t.Errorf("paper not enriched: %+v", p)
	}
	// Two prompts per paper: translation then contribution.
	if backend.calls != 2 {
		t.Errorf("backend calls = %d, want 2", backend.calls)
	}
	if !strings.Contains(backend.prompts[0], "Translate it into Chinese") {
		t.Errorf("translation prompt = %q", backend.prompts[0])
	}
	if !strings.Contains(backend.prompts[1], "single Chinese sentence") {
		t.Errorf("contribution prompt = %q", backend.prompts[1])
	}
}

func TestEnrichAllRecoversAfterTransientFailures(t *testing.T) {
	c := testCollection("Abstract.")
	backend := &mockBackend{failN: 2}
	var buf bytes.Buffer

	n := EnrichAll(context.Background(), backend, c, types.EnrichConfig{}, &buf)
	if n != 1 {
		t.Fatalf("enriched = %d, want 1", n)
	}
	if strings.Contains(buf.String(), "warning:") {
		t.Errorf("recovered retries should not warn: %q", buf.String())
	}
}

func TestEnrichAllContinuesPastFailedPaper(t *testing.T) {
	c := testCollection("poisoned abstract", "clean abstract")
	backend := &mockBackend{failMatch: "poisoned"}
	var buf bytes.Buffer

	cfg := types.EnrichConfig{AIConfig: types.AIConfig{MaxRetries: 1}}
	n := EnrichAll(context.Background(), backend, c, cfg, &buf)
	if n != 1 {
		t.Fatalf("enriched = %d, want 1", n)
	}
	if !strings.Contains(buf.String(), "warning:") {
		t.Error("expected warnings for the failed paper")
	}
	p, _ := c.Get("2403.00000v1")
	if p.Translation != "" {
		t.Errorf("failed paper should stay unenriched, got %q", p.Translation)
	}
	p, _ = c.Get("2403.00001v1")
	if p.Translation == "" {
		t.Error("later paper should still be enriched")
	}
}

func TestEnrichAllTruncatesLongAbstracts(t *testing.T) {
	long := strings.Repeat("宇", 5000)
	c := testCollection(long)
	backend := &mockBackend{}
	var buf bytes.Buffer

	cfg := types.EnrichConfig{MaxAbstractChars: 100}
	EnrichAll(context.Background(), backend, c, cfg, &buf)

	for _, prompt := range backend.prompts {
		if strings.Count(prompt, "宇") != 100 {
			t.Errorf("abstract not truncated to 100 runes: %d", strings.Count(prompt, "宇"))
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "abc", 10, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multibyte cut on rune boundary", "宇宙論", 2, "宇宙"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
