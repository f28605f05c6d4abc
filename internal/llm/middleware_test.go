package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/proctor/internal/store"
)

func fastRetry(p Provider, attempts int) *RetryProvider {
	r := WithRetry(p, RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 2}).(*RetryProvider)
	r.sleep = func(context.Context, time.Duration) error { return nil }
	return r
}

func TestRetryRecoversFromTransientErrors(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &RateLimitError{Err: errors.New("429")}},
		MockResponse{Err: &UnavailableError{Err: errors.New("502")}},
	).Reply(`{"verdict":"correct"}`)

	resp, err := fastRetry(mock, 3).Generate(context.Background(), Request{Schema: verdictSchema})
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"correct"}`, string(resp.Content))
	assert.Equal(t, 3, mock.Calls())
}

func TestRetryGivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider()
	_, err := fastRetry(mock, 2).Generate(context.Background(), Request{})
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 2, mock.Calls())
}

func TestRetryInvalidResponseOnce(t *testing.T) {
	mock := NewMockProvider().Reply(`{"verdict":"maybe"}`).Reply(`{"verdict":"maybe"}`).Reply(`{"verdict":"correct"}`)
	_, err := fastRetry(mock, 5).Generate(context.Background(), Request{Schema: verdictSchema})
	var invalid *InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, mock.Calls())
}

func TestRetryStopsOnTruncation(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &TruncatedError{}})
	_, err := fastRetry(mock, 3).Generate(context.Background(), Request{})
	var truncated *TruncatedError
	assert.ErrorAs(t, err, &truncated)
	assert.Equal(t, 1, mock.Calls())
}

func TestRetryHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := NewMockProvider(MockResponse{Err: &UnavailableError{}})
	r := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})
	cancel()
	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.Calls())
}

func TestBackoffRespectsRetryAfter(t *testing.T) {
	r := fastRetry(NewMockProvider(), 3)
	assert.Equal(t, 7*time.Second, r.backoff(0, &RateLimitError{RetryAfter: 7 * time.Second}))

	r.cfg = RetryConfig{InitialWait: time.Second, MaxWait: 4 * time.Second, Multiplier: 2}
	d := r.backoff(5, errors.New("x"))
	assert.LessOrEqual(t, d, time.Duration(float64(4*time.Second)*1.2))
	assert.GreaterOrEqual(t, d, time.Duration(float64(4*time.Second)*0.8))
}

type memRecorder struct {
	events []store.LLMRequestEventData
	err    error
}

func (m *memRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.events = append(m.events, data)
	return m.err
}

func TestRecordingProvider(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(MockResponse{Content: []byte(`{"verdict":"correct"}`), Usage: Usage{InputTokens: 9, OutputTokens: 3}}).
		Push(MockResponse{Err: errors.New("boom")})
	p := WithRecording(mock, ProviderMock, rec)

	ctx := WithPurpose(context.Background(), "answer-explanation")
	_, err := p.Generate(ctx, Request{System: "sys", Messages: UserPrompt("hello"), Schema: verdictSchema})
	require.NoError(t, err)
	_, err = p.Generate(ctx, Request{Messages: UserPrompt("again")})
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	ok := rec.events[0]
	assert.True(t, ok.Success)
	assert.Equal(t, "answer-explanation", ok.Purpose)
	assert.Equal(t, ProviderMock, ok.Provider)
	assert.Equal(t, 9, ok.InputTokens)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")
	assert.Contains(t, ok.RequestBody, "[user]\nhello")
	assert.Contains(t, ok.RequestBody, "[schema: test-verdict]")
	assert.JSONEq(t, `{"verdict":"correct"}`, ok.ResponseBody)

	failed := rec.events[1]
	assert.False(t, failed.Success)
	assert.Equal(t, "boom", failed.ErrorMessage)
}

func TestRecordingFailureDoesNotFailCall(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	p := WithRecording(NewMockProvider().Reply(`"ok"`), ProviderMock, rec)
	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestPurposeDefault(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
}

func TestValidateResponse(t *testing.T) {
	assert.NoError(t, validateResponse(nil, []byte("not json")))
	assert.NoError(t, validateResponse(verdictSchema, []byte(`{"verdict":"incorrect"}`)))

	for _, raw := range []string{`not json`, `{}`, `{"verdict":"correct","extra":1}`} {
		var invalid *InvalidResponseError
		assert.ErrorAs(t, validateResponse(verdictSchema, []byte(raw)), &invalid, raw)
	}
}

func envFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestConfigFromEnv(t *testing.T) {
	cfg, err := configFrom(envFrom(map[string]string{
		"PROCTOR_LLM_PROVIDER":   "openai",
		"PROCTOR_OPENAI_API_KEY": "sk-1",
		"PROCTOR_OPENAI_MODEL":   "gpt-4.1-mini",
	}))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-1", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)

	_, err = configFrom(envFrom(map[string]string{"PROCTOR_LLM_PROVIDER": "anthropic"}))
	assert.ErrorContains(t, err, "PROCTOR_ANTHROPIC_API_KEY")

	_, err = configFrom(envFrom(map[string]string{"PROCTOR_LLM_PROVIDER": "llama"}))
	assert.ErrorContains(t, err, "unknown LLM provider")

	cfg, err = configFrom(envFrom(map[string]string{"PROCTOR_LLM_PROVIDER": "mock"}))
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, cfg.Provider)
}

func TestConfigDiscovery(t *testing.T) {
	cfg, err := configFrom(envFrom(map[string]string{
		"ANTHROPIC_API_KEY": "a",
		"OPENAI_API_KEY":    "o",
	}))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "o", cfg.OpenAI.APIKey)

	cfg, err = configFrom(envFrom(map[string]string{"PROCTOR_OPENROUTER_API_KEY": "r"}))
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenRouter, cfg.Provider)
	assert.Equal(t, defaultOpenRouterBaseURL, cfg.OpenRouter.BaseURL)

	_, err = configFrom(envFrom(nil))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewProviderMock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, &memRecorder{})
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, p.ModelID())

	cfg.Provider = ProviderAnthropic
	_, err = NewProvider(context.Background(), cfg, nil)
	assert.Error(t, err)
}
