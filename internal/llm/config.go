package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned by ConfigFromEnv when no provider or API
// key is present in the environment.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  Endpoint
	OpenAI     Endpoint
	Gemini     Endpoint
	OpenRouter Endpoint

	Retry RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// Endpoint is the per-provider credential and model choice. BaseURL is
// honoured by OpenAI-compatible providers only.
type Endpoint struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig tunes exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has every provider on its cheapest sensible model.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  Endpoint{Model: "claude-haiku"},
		OpenAI:     Endpoint{Model: "gpt-4o-mini"},
		Gemini:     Endpoint{Model: "gemini-flash"},
		OpenRouter: Endpoint{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// endpoint returns the Endpoint for a provider name.
func (c *Config) endpoint(provider string) *Endpoint {
	switch provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// envPrefix is prepended to every provider variable, e.g.
// PROCTOR_OPENAI_API_KEY.
const envPrefix = "PROCTOR_"

// discoveryOrder lists providers probed through their vendor-standard key
// variables when PROCTOR_LLM_PROVIDER is unset.
var discoveryOrder = []struct {
	provider string
	keyVar   string
}{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// ConfigFromEnv reads PROCTOR_LLM_PROVIDER and the PROCTOR_<PROVIDER>_*
// variables. Without an explicit provider, the first vendor key found in
// discoveryOrder wins. ErrNotConfigured means neither was present.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	for _, name := range []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter} {
		ep := cfg.endpoint(name)
		upper := envPrefix + strings.ToUpper(name)
		if v := getenv(upper + "_API_KEY"); v != "" {
			ep.APIKey = v
		}
		if v := getenv(upper + "_MODEL"); v != "" {
			ep.Model = v
		}
		if v := getenv(upper + "_BASE_URL"); v != "" {
			ep.BaseURL = v
		}
	}

	if p := getenv(envPrefix + "LLM_PROVIDER"); p != "" {
		cfg.Provider = p
		return cfg, cfg.Validate()
	}

	for _, d := range discoveryOrder {
		ep := cfg.endpoint(d.provider)
		if ep.APIKey == "" {
			ep.APIKey = getenv(d.keyVar)
		}
		if ep.APIKey != "" {
			cfg.Provider = d.provider
			return cfg, nil
		}
	}
	return cfg, ErrNotConfigured
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	ep := c.endpoint(c.Provider)
	if ep == nil {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if ep.APIKey == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
