package assessment

import (
	"github.com/abhisek/proctor/internal/access"
	"github.com/abhisek/proctor/internal/grading"
	"github.com/abhisek/proctor/internal/quiz"
)

// Mode is the state of an assessment session.
type Mode int

const (
	ModeLocked         Mode = iota // Access gate denies starting
	ModeNotStarted                 // Ready to start an attempt
	ModeInProgress                 // Answering questions, countdown running
	ModeSubmitting                 // Attempt being persisted
	ModeShowingResults             // Result of the attempt just submitted
	ModeExhausted                  // Every permitted attempt used
	ModeReviewing                  // Read-only replay of the latest attempt
)

func (m Mode) String() string {
	switch m {
	case ModeLocked:
		return "locked"
	case ModeNotStarted:
		return "not_started"
	case ModeInProgress:
		return "in_progress"
	case ModeSubmitting:
		return "submitting"
	case ModeShowingResults:
		return "showing_results"
	case ModeExhausted:
		return "exhausted"
	case ModeReviewing:
		return "reviewing"
	}
	return "unknown"
}

// idle reports whether the mode sits between attempts.
func (m Mode) idle() bool {
	return m == ModeLocked || m == ModeNotStarted || m == ModeExhausted
}

// Unlimited is the AttemptsRemaining value for quizzes without an attempt cap.
const Unlimited = -1

// State is a snapshot of a session for rendering.
type State struct {
	Mode                 Mode
	CurrentQuestionIndex int
	QuestionCount        int
	RemainingSeconds     int
	AnsweredCount        int

	AttemptsUsed      int
	AttemptsRemaining int // Unlimited when the quiz has no cap

	Access access.Decision

	// LastResult and LastAttempt describe the most recent submission in
	// this session, set while showing results.
	LastResult  *grading.Result
	LastAttempt *quiz.Attempt

	// LastError holds the failure of the most recent submit, if any.
	LastError error

	// ReviewResult and ReviewAttempt are set while reviewing.
	ReviewResult  *grading.Result
	ReviewAttempt *quiz.Attempt
}

// CanStart reports whether Start would be accepted.
func (s State) CanStart() bool {
	return s.Mode == ModeNotStarted
}

// CanReview reports whether StartReview would be accepted.
func (s State) CanReview() bool {
	return (s.Mode == ModeNotStarted || s.Mode == ModeExhausted) && s.AttemptsUsed > 0
}
