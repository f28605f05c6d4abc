package llm

import (
	"context"
	"fmt"
	"time"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → recording → provider, so each retry is recorded.
// A nil rec disables recording.
func NewProvider(ctx context.Context, cfg Config, rec RequestRecorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		base = WithRecording(base, cfg.Provider, rec)
	}
	retried := WithRetry(base, cfg.Retry)
	if cfg.Timeout > 0 {
		return &timeoutProvider{Provider: retried, timeout: cfg.Timeout}, nil
	}
	return retried, nil
}

// timeoutProvider bounds each Generate call, retries included.
type timeoutProvider struct {
	Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Provider.Generate(ctx, req)
}

// NewProviderFromEnv is NewProvider over ConfigFromEnv. It returns
// ErrNotConfigured when the environment names no provider.
func NewProviderFromEnv(ctx context.Context, rec RequestRecorder) (Provider, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, rec)
}
