// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the ball-by-ball export (CSV or JSON).
	DatasetPath string `koanf:"dataset_path"`

	// MinMatches is the sample-size floor for leaderboards and pools.
	MinMatches int `koanf:"min_matches"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// FuzzyCutoff is the minimum similarity for fuzzy name resolution.
	FuzzyCutoff float64 `koanf:"fuzzy_cutoff"`

	// ResolutionCacheSize bounds the name resolution cache.
	ResolutionCacheSize int `koanf:"resolution_cache_size"`

	// MaxHistory bounds the in-memory conversation history.
	MaxHistory int `koanf:"max_history"`

	// LLMProvider selects the model backend: openai, ollama or static.
	LLMProvider string `koanf:"llm_provider"`

	// LLMBaseURL overrides the provider's default endpoint.
	LLMBaseURL string `koanf:"llm_base_url"`

	// LLMAPIKey authenticates against hosted providers.
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMModel names the model to complete with.
	LLMModel string `koanf:"llm_model"`

	// LLMTimeoutSeconds bounds one completion request.
	LLMTimeoutSeconds int `koanf:"llm_timeout_seconds"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use and
// is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DatasetPath:         "data/balls.csv",
		MinMatches:          2,
		MaxLeaderboardLimit: 100,
		FuzzyCutoff:         0.6,
		ResolutionCacheSize: 4096,
		MaxHistory:          100,
		LLMProvider:         "static",
		LLMTimeoutSeconds:   60,
	}
	return c
}
