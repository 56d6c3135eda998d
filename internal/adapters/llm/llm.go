// Package llm abstracts the language model used to phrase answers. The
// dispatcher only needs one-shot completions, so the interface is a
// single Complete call; providers wrap OpenAI-compatible servers and
// local Ollama instances, and a static client serves tests and offline
// runs.
package llm

import (
	"context"
	"errors"
	"time"
)

// Client produces one completion for one prompt.
type Client interface {
	// Name identifies the provider for logs and metrics.
	Name() string
	// Complete returns the model's text for the prompt. Implementations
	// honor ctx cancellation and return an error rather than an empty
	// string on failure.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxTokens   = 600
	defaultTemperature = 0.3
)

var (
	// ErrNoProvider means the config named no known provider.
	ErrNoProvider = errors.New("llm: unknown provider")
	// ErrEmptyCompletion means the provider answered but with no text.
	ErrEmptyCompletion = errors.New("llm: empty completion")
)

// New builds the configured provider.
func New(cfg Config) (Client, error) {
	cfg = withDefaults(cfg)
	switch cfg.Provider {
	case "openai", "openai-compatible":
		return newOpenAI(cfg)
	case "ollama":
		return newOllama(cfg)
	case "static", "":
		return NewStatic(""), nil
	default:
		return nil, ErrNoProvider
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	return cfg
}
