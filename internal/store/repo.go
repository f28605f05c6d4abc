package store

import (
	"context"
	"time"

	"github.com/abhisek/proctor/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	StudentID string    // session events only
	QuizID    string    // session events only
	Purpose   string    // LLM events only
}

// AttemptRepo stores completed quiz attempts. Attempts are append-only.
type AttemptRepo interface {
	// Create persists a new attempt with a fresh UUID.
	Create(ctx context.Context, in quiz.AttemptInput) (quiz.Attempt, error)

	// ListForQuiz returns a student's attempts at one quiz, newest first.
	ListForQuiz(ctx context.Context, studentID, quizID string) ([]quiz.Attempt, error)

	// ListForStudent returns a student's attempts across quizzes, most
	// recently completed first. limit <= 0 means no limit.
	ListForStudent(ctx context.Context, studentID string, limit int) ([]quiz.Attempt, error)

	// Get returns one attempt or ErrNotFound.
	Get(ctx context.Context, id string) (quiz.Attempt, error)
}

// ProgressRecord marks a quiz as completed for course progress.
type ProgressRecord struct {
	StudentID   string
	CourseID    string
	QuizID      string
	CompletedAt time.Time
}

// ProgressRepo stores quiz completion markers.
type ProgressRepo interface {
	// MarkQuizComplete records completion. Repeated calls keep the first record.
	MarkQuizComplete(ctx context.Context, studentID, courseID, quizID string) error

	// List returns a student's completion markers for a course.
	List(ctx context.Context, studentID, courseID string) ([]ProgressRecord, error)
}

// VideoRepo stores the externally supplied video-completion signal.
type VideoRepo interface {
	// MarkComplete records a watched video. Repeated calls are ignored.
	MarkComplete(ctx context.Context, studentID, courseID, videoID string) error

	// Completed returns the watched video IDs for a course, sorted.
	Completed(ctx context.Context, studentID, courseID string) ([]string, error)
}

// SessionEventData captures one assessment session lifecycle event.
type SessionEventData struct {
	SessionID     string
	StudentID     string
	QuizID        string
	CourseID      string
	Action        string
	AttemptNumber int
	Score         int
	Detail        string
	Timestamp     time.Time // zero means now
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	ID       int
	Sequence int64
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionEvents returns session events, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates LLM usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
