package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a single completion. When the request carries a
// Schema the response Content is JSON that has already been validated
// against it.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider sends requests to.
	ModelID() string
}

// Request is one completion call.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output. Nil means free text.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the provider default
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must satisfy. Name doubles as
// the cache key for the compiled validator and as the schema name sent to
// providers that require one, so it must be unique per Definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds the common single-turn message list.
func UserPrompt(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}
