package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/proctor/internal/store"
)

// RequestRecorder persists one row per LLM call. store.EventRepo
// satisfies it.
type RequestRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// RecordingProvider writes every call, successful or not, to a
// RequestRecorder. Recording failures are reported on stderr and never
// fail the call.
type RecordingProvider struct {
	inner    Provider
	provider string
	rec      RequestRecorder
	now      func() time.Time
}

// WithRecording wraps p. provider is the name stored with each event.
func WithRecording(p Provider, provider string, rec RequestRecorder) Provider {
	return &RecordingProvider{inner: p, provider: provider, rec: rec, now: time.Now}
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   r.now().Sub(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if rerr := r.rec.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record LLM request: %v\n", rerr)
	}
	return resp, err
}

// transcript renders a request the way `proctor llm view` shows it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
