// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich adds AI-generated abstract translations and one-line
// contribution summaries to a digest collection.
package enrich

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-digest/internal/digest"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Backend abstracts the Generative AI API so tests can supply a mock.
// Given a complete prompt it returns the generated text.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	defaultLanguage         = "Chinese"
	defaultMaxAbstractChars = 4000
	defaultMaxRetries       = 3
)

const translationPrompt = `The text below is the abstract of an artificial-intelligence paper. Translate it into %s, keeping the wording fluent. Leave domain terms such as transformer, token, and logit untranslated.

%s`

const contributionPrompt = `The text below is the abstract of an artificial-intelligence paper. State its core contribution in a single %s sentence, typically of the form "used <method> to solve <problem>". Leave domain terms such as transformer, token, and logit untranslated.

%s`

// backoffBase controls the base duration for exponential backoff between
// enrichment attempts. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// EnrichAll generates a translation and a contribution summary for every
// paper in the collection and returns the number of papers enriched.
// Abstracts are truncated to the configured bound before forwarding.
// A paper whose calls fail is left unenriched with a warning on w; the AI
// service is an unreliable collaborator and never aborts the run.
func EnrichAll(ctx context.Context, backend Backend, c *digest.Collection, cfg types.EnrichConfig, w io.Writer) int {
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}
	maxChars := cfg.MaxAbstractChars
	if maxChars <= 0 {
		maxChars = defaultMaxAbstractChars
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	enriched := 0
	papers := c.Papers()
	for i, p := range papers {
		fmt.Fprintf(w, "enriching %d/%d: %s\n", i+1, len(papers), p.ID)
		abstract := truncate(p.Abstract, maxChars)

		translation, err := callWithRetry(ctx, backend, fmt.Sprintf(translationPrompt, language, abstract), maxRetries)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: translation failed: %v\n", p.ID, err)
		}
		contribution, err := callWithRetry(ctx, backend, fmt.Sprintf(contributionPrompt, language, abstract), maxRetries)
		if err != nil {
			fmt.Fprintf(w, "warning: %s: contribution summary failed: %v\n", p.ID, err)
		}

		if translation == "" && contribution == "" {
			continue
		}
		c.SetEnrichment(p.ID, translation, contribution)
		enriched++
	}
	return enriched
}

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend Backend, prompt string, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		text, err := backend.Generate(ctx, prompt)
		if err == nil {
			return strings.TrimSpace(text), nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}

// truncate bounds the text forwarded to the AI API, cutting on a rune
// boundary so multi-byte abstracts stay valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
