package store

import (
	"context"

	"github.com/abhisek/proctor/internal/access"
	"github.com/abhisek/proctor/internal/assessment"
	"github.com/abhisek/proctor/internal/quiz"
)

// Gateway adapts the store to the interfaces an assessment session consumes.
type Gateway struct {
	attempts AttemptRepo
	progress ProgressRepo
	videos   VideoRepo
	events   EventRepo
}

// Gateway returns the assessment adapter for this store.
func (s *Store) Gateway() *Gateway {
	return &Gateway{
		attempts: s.AttemptRepo(),
		progress: s.ProgressRepo(),
		videos:   s.VideoRepo(),
		events:   s.EventRepo(),
	}
}

var (
	_ assessment.AttemptGateway = (*Gateway)(nil)
	_ assessment.VideoProgress  = (*Gateway)(nil)
	_ assessment.ActivitySink   = (*Gateway)(nil)
)

func (g *Gateway) ListAttempts(ctx context.Context, studentID, quizID string) ([]quiz.Attempt, error) {
	return g.attempts.ListForQuiz(ctx, studentID, quizID)
}

func (g *Gateway) CreateAttempt(ctx context.Context, in quiz.AttemptInput) (quiz.Attempt, error) {
	return g.attempts.Create(ctx, in)
}

func (g *Gateway) CreateProgressRecord(ctx context.Context, studentID, courseID, quizID string) error {
	return g.progress.MarkQuizComplete(ctx, studentID, courseID, quizID)
}

func (g *Gateway) CompletedVideoIDs(ctx context.Context, studentID, courseID string) (map[string]bool, error) {
	ids, err := g.videos.Completed(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return access.CompletedSet(ids), nil
}

// RecordActivity appends a session lifecycle event to the event log.
func (g *Gateway) RecordActivity(ctx context.Context, a assessment.Activity) error {
	return g.events.AppendSessionEvent(ctx, SessionEventData{
		SessionID:     a.SessionID,
		StudentID:     a.StudentID,
		QuizID:        a.QuizID,
		CourseID:      a.CourseID,
		Action:        string(a.Action),
		AttemptNumber: a.AttemptNumber,
		Score:         a.Score,
		Detail:        a.Detail,
		Timestamp:     a.At,
	})
}
