// Package explain produces per-question feedback for a graded answer:
// the author's explanation when the quiz has one, otherwise a short
// LLM-generated explanation.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/llm"
	"github.com/abhisek/proctor/internal/quiz"
)

// Purpose labels generated explanations in the LLM event log.
const Purpose = "answer-explanation"

// ErrUnavailable is returned when a question has no authored explanation
// and no provider is configured.
var ErrUnavailable = errors.New("no explanation available")

// Source says where an Explanation came from.
type Source int

const (
	SourceAuthored  Source = iota // Question.Explanation
	SourceGenerated               // LLM
)

// Explanation is the feedback shown for one question in review.
type Explanation struct {
	QuestionID string
	Source     Source
	Text       string
	Tip        string // generated only
}

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.3}
}

// Service resolves explanations. It is safe for concurrent use; generated
// results are cached per quiz, question and encoded answer.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[cacheKey]*Explanation
}

type cacheKey struct {
	quizID, questionID, answer string
}

// NewService returns a Service. provider may be nil, in which case only
// authored explanations are served.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, cache: make(map[cacheKey]*Explanation)}
}

// Generative reports whether the service can generate explanations.
func (s *Service) Generative() bool { return s != nil && s.provider != nil }

// Explain returns feedback for the student's value on question idx.
func (s *Service) Explain(ctx context.Context, qz *quiz.Quiz, idx int, v answer.Value, correct bool) (*Explanation, error) {
	if idx < 0 || idx >= len(qz.Questions) {
		return nil, fmt.Errorf("question %d out of range", idx)
	}
	q := qz.Questions[idx]
	if q.Explanation != "" {
		return &Explanation{QuestionID: q.ID, Source: SourceAuthored, Text: q.Explanation}, nil
	}
	if !s.Generative() {
		return nil, ErrUnavailable
	}

	key := cacheKey{quizID: qz.ID, questionID: q.ID, answer: answer.Encode(v)}
	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	ex, err := s.generate(ctx, qz, q, v, correct)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[key] = ex
	s.mu.Unlock()
	return ex, nil
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

func (s *Service) generate(ctx context.Context, qz *quiz.Quiz, q quiz.Question, v answer.Value, correct bool) (*Explanation, error) {
	resp, err := s.provider.Generate(llm.WithPurpose(ctx, Purpose), llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserPrompt(userMessage(qz, q, v, correct)),
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate explanation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	return &Explanation{QuestionID: q.ID, Source: SourceGenerated, Text: out.Explanation, Tip: out.Tip}, nil
}
