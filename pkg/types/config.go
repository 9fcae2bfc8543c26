package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout per attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the paper fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Keywords is the list of search terms, each processed to completion
	// before the next begins.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// PageSize is the number of entries requested per API call
	// (default 10, capped by the provider).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MaxRetries is the retry budget for one page fetch (default 3).
	// Exhausting it ends that keyword's pagination, not the run.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the OpenAI-compatible API base (default
	// "https://api.deepseek.com/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EnrichConfig holds settings for the AI enrichment stage.
type EnrichConfig struct {
	AIConfig `yaml:",inline"`

	// Language is the target language for abstract translation (default "Chinese").
	Language string `json:"language" yaml:"language"`

	// MaxAbstractChars bounds the abstract length forwarded to the AI API
	// (default 4000). Longer abstracts are truncated, not rejected.
	MaxAbstractChars int `json:"max_abstract_chars" yaml:"max_abstract_chars"`
}

// MailConfig holds settings for SMTP digest delivery.
type MailConfig struct {
	// Host is the SMTP server hostname (e.g. "smtp.qq.com").
	Host string `json:"host" yaml:"host"`

	// Port is the SMTP server port. Port 465 uses implicit TLS;
	// other ports use STARTTLS.
	Port int `json:"port" yaml:"port"`

	// From is the sender address, also used for authentication.
	From string `json:"from" yaml:"from"`

	// FromName is the optional sender display name.
	FromName string `json:"from_name,omitempty" yaml:"from_name,omitempty"`

	// Password is the SMTP password or app-specific password.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// To lists the recipient addresses.
	To []string `json:"to" yaml:"to"`

	// MaxRetries is the number of send retry attempts (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Path is the SQLite database file (default "digest-history.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations for a digest run.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Enrich  EnrichConfig  `json:"enrich" yaml:"enrich"`
	Mail    MailConfig    `json:"mail" yaml:"mail"`
	History HistoryConfig `json:"history" yaml:"history"`
}
