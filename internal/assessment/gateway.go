package assessment

import (
	"context"
	"time"

	"github.com/abhisek/proctor/internal/quiz"
)

// AttemptGateway is the attempt store consumed by a Session.
type AttemptGateway interface {
	// ListAttempts returns the student's attempts at a quiz, most recent
	// first. It returns an empty slice, not an error, when there are none.
	ListAttempts(ctx context.Context, studentID, quizID string) ([]quiz.Attempt, error)

	// CreateAttempt persists a new attempt and returns it with its identity.
	CreateAttempt(ctx context.Context, in quiz.AttemptInput) (quiz.Attempt, error)

	// CreateProgressRecord marks the quiz complete for course-progress
	// aggregation. Repeated calls are harmless.
	CreateProgressRecord(ctx context.Context, studentID, courseID, quizID string) error
}

// VideoProgress supplies the completed-video signal for the access gate.
type VideoProgress interface {
	CompletedVideoIDs(ctx context.Context, studentID, courseID string) (map[string]bool, error)
}

// Action names a session lifecycle event.
type Action string

const (
	ActionStart          Action = "start"
	ActionSubmit         Action = "submit"
	ActionAutoSubmit     Action = "auto_submit"
	ActionSubmitFailed   Action = "submit_failed"
	ActionProgressFailed Action = "progress_failed"
	ActionAbandon        Action = "abandon"
	ActionReview         Action = "review"
)

// Activity is one session lifecycle event, recorded for the event log.
type Activity struct {
	SessionID     string
	StudentID     string
	QuizID        string
	CourseID      string
	Action        Action
	AttemptNumber int
	Score         int
	Detail        string
	At            time.Time
}

// ActivitySink receives session lifecycle events. Sink failures never
// affect the session.
type ActivitySink interface {
	RecordActivity(ctx context.Context, a Activity) error
}
