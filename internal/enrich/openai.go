// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/arxiv-digest/internal/httputil"
	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// defaultAPIBase is an OpenAI-compatible chat-completions provider.
const defaultAPIBase = "https://api.deepseek.com/v1"

// Generation parameters matched to the digest's enrichment workload.
const (
	chatTemperature = 1.3
	chatMaxTokens   = 8192
)

// OpenAIBackend calls an OpenAI-compatible chat-completions API.
type OpenAIBackend struct {
	Client *http.Client
	Cfg    types.AIConfig

	// base is the resolved API base URL without a trailing slash.
	base string
}

// NewOpenAIBackend returns a backend for the configured provider.
func NewOpenAIBackend(client *http.Client, cfg types.AIConfig) *OpenAIBackend {
	base := cfg.BaseURL
	if base == "" {
		base = defaultAPIBase
	}
	return &OpenAIBackend{
		Client: client,
		Cfg:    cfg,
		base:   strings.TrimSuffix(base, "/"),
	}
}

// Generate sends one user prompt and returns the model's reply text.
// Rate-limit responses are retried by httputil.DoWithRetry.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       b.Cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.Cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.Cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("chat API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat response contained no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// OpenAI-compatible chat API JSON structures.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
