// Package assessment runs one student's session against one quiz: starting
// attempts, collecting answers, the countdown, submission, and review.
//
// A Session has no timing source of its own. The caller feeds Tick once per
// elapsed second.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/proctor/internal/access"
	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/grading"
	"github.com/abhisek/proctor/internal/quiz"
)

// Config wires a Session to its collaborators.
type Config struct {
	Quiz      *quiz.Quiz
	StudentID string
	Gateway   AttemptGateway

	// Videos supplies completed videos for the access gate. Optional when
	// the quiz does not require video completion.
	Videos VideoProgress

	// Grader defaults to the built-in strategies.
	Grader *grading.Grader

	// Sink receives lifecycle events. Optional.
	Sink ActivitySink

	// OnProgressRefresh runs once each time results are closed.
	OnProgressRefresh func()

	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is the assessment state machine for one (student, quiz) pair.
// It is safe for concurrent use.
type Session struct {
	cfg Config
	id  string

	mu        sync.Mutex
	mode      Mode
	index     int
	buffer    []answer.Value
	touched   []bool // per question, set by Answer during an attempt
	remaining int
	startedAt time.Time

	attempts  []quiz.Attempt // most recent first
	completed map[string]bool
	decision  access.Decision

	lastResult  *grading.Result
	lastAttempt *quiz.Attempt
	lastErr     error

	reviewResult  *grading.Result
	reviewAttempt *quiz.Attempt
}

// New loads the student's attempts and completed videos and places the
// session in its initial mode.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Quiz == nil {
		return nil, errors.New("assessment: quiz is required")
	}
	if cfg.Gateway == nil {
		return nil, errors.New("assessment: attempt gateway is required")
	}
	if cfg.StudentID == "" {
		return nil, errors.New("assessment: student id is required")
	}
	if cfg.Grader == nil {
		cfg.Grader = grading.NewGrader()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{cfg: cfg, id: uuid.New().String()}
	attempts, completed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = attempts
	s.completed = completed
	s.decision = access.Evaluate(cfg.Quiz, completed, cfg.Now())
	s.mode = s.idleModeLocked()
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the quiz being taken.
func (s *Session) Quiz() *quiz.Quiz { return s.cfg.Quiz }

// Attempts returns the student's attempts, most recent first.
func (s *Session) Attempts() []quiz.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]quiz.Attempt(nil), s.attempts...)
}

// AnswerAt returns the buffered answer for question i, or nil when there
// is no buffer.
func (s *Session) AnswerAt(i int) answer.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.buffer) {
		return nil
	}
	return s.buffer[i]
}

// State returns a snapshot for rendering.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Mode:                 s.mode,
		CurrentQuestionIndex: s.index,
		QuestionCount:        len(s.cfg.Quiz.Questions),
		RemainingSeconds:     s.remaining,
		AttemptsUsed:         len(s.attempts),
		AttemptsRemaining:    s.attemptsRemainingLocked(),
		Access:               s.decision,
		LastResult:           s.lastResult,
		LastAttempt:          s.lastAttempt,
		LastError:            s.lastErr,
		ReviewResult:         s.reviewResult,
		ReviewAttempt:        s.reviewAttempt,
	}
	for i, v := range s.buffer {
		if v == nil || v.Empty() {
			continue
		}
		// A ranking left in its starting order counts once the student touches it.
		if s.touched != nil && v.Type() == quiz.TypeRanking && !s.touched[i] {
			continue
		}
		st.AnsweredCount++
	}
	return st
}

// Start begins a new attempt with an empty answer buffer.
func (s *Session) Start() error {
	s.mu.Lock()
	switch s.mode {
	case ModeNotStarted:
	case ModeExhausted:
		s.mu.Unlock()
		return ErrExhausted
	case ModeLocked:
		err := s.decision.Err()
		s.mu.Unlock()
		return err
	default:
		err := transitionError("start", s.mode)
		s.mu.Unlock()
		return err
	}
	if s.attemptsRemainingLocked() == 0 {
		s.mode = ModeExhausted
		s.mu.Unlock()
		return ErrExhausted
	}

	qz := s.cfg.Quiz
	s.buffer = answer.Defaults(qz)
	s.touched = make([]bool, len(qz.Questions))
	s.remaining = qz.TimeLimitSeconds()
	s.index = 0
	s.startedAt = s.cfg.Now()
	s.lastResult = nil
	s.lastAttempt = nil
	s.lastErr = nil
	s.mode = ModeInProgress
	act := s.activityLocked(ActionStart)
	act.AttemptNumber = len(s.attempts) + 1
	s.mu.Unlock()

	s.emit(context.Background(), act)
	return nil
}

// Answer applies an editing input to question idx. It is a no-op while
// reviewing.
func (s *Session) Answer(idx int, in answer.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ModeReviewing {
		return nil
	}
	if s.mode != ModeInProgress {
		return transitionError("answer", s.mode)
	}
	qs := s.cfg.Quiz.Questions
	if idx < 0 || idx >= len(qs) {
		return fmt.Errorf("%w: question %d out of range", answer.ErrInvalidInput, idx)
	}
	next, err := answer.Apply(qs[idx], s.buffer[idx], in)
	if err != nil {
		return err
	}
	s.buffer[idx] = next
	s.touched[idx] = true
	return nil
}

// Navigate moves the current question by delta, clamped to the quiz bounds.
func (s *Session) Navigate(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeInProgress && s.mode != ModeReviewing {
		return transitionError("navigate", s.mode)
	}
	s.index = clamp(s.index+delta, 0, len(s.cfg.Quiz.Questions)-1)
	return nil
}

// Tick advances the countdown by one second. When it reaches zero the
// attempt is submitted through the same path as Submit. Outside an attempt,
// Tick re-evaluates the schedule gate against the clock.
func (s *Session) Tick(ctx context.Context) error {
	s.mu.Lock()
	if s.mode.idle() {
		s.decision = access.Evaluate(s.cfg.Quiz, s.completed, s.cfg.Now())
		s.mode = s.idleModeLocked()
		s.mu.Unlock()
		return nil
	}
	if s.mode != ModeInProgress || !s.cfg.Quiz.Timed() || s.remaining <= 0 {
		s.mu.Unlock()
		return nil
	}
	s.remaining--
	expired := s.remaining == 0
	s.mu.Unlock()

	if !expired {
		return nil
	}
	return s.submit(ctx, true)
}

// Submit grades and persists the attempt in progress. Only one submission
// may be in flight; a re-entrant call returns ErrSubmitInFlight. On gateway
// failure the session returns to in-progress with its answers intact.
func (s *Session) Submit(ctx context.Context) error {
	return s.submit(ctx, false)
}

func (s *Session) submit(ctx context.Context, forced bool) error {
	s.mu.Lock()
	if s.mode == ModeSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}
	if s.mode != ModeInProgress {
		err := transitionError("submit", s.mode)
		s.mu.Unlock()
		return err
	}
	s.mode = ModeSubmitting
	values := append([]answer.Value(nil), s.buffer...)
	remaining := s.remaining
	startedAt := s.startedAt
	attemptNumber := len(s.attempts) + 1
	s.mu.Unlock()

	qz := s.cfg.Quiz
	result := s.cfg.Grader.Grade(qz, values)
	now := s.cfg.Now()
	in := quiz.AttemptInput{
		StudentID:        s.cfg.StudentID,
		QuizID:           qz.ID,
		CourseID:         qz.CourseID,
		AttemptNumber:    attemptNumber,
		Answers:          answer.EncodeAll(qz, values),
		Score:            result.ScorePercentage,
		TimeTakenMinutes: timeTakenMinutes(qz, remaining, startedAt, now),
		StartedAt:        startedAt,
		CompletedAt:      now,
	}

	created, err := s.cfg.Gateway.CreateAttempt(ctx, in)
	if err != nil {
		serr := &StorageError{Op: "create attempt", Err: err}
		s.mu.Lock()
		s.mode = ModeInProgress
		s.lastErr = serr
		act := s.activityLocked(ActionSubmitFailed)
		act.AttemptNumber = attemptNumber
		act.Detail = err.Error()
		s.mu.Unlock()
		s.emit(ctx, act)
		return serr
	}

	var progressErr error
	if err := s.cfg.Gateway.CreateProgressRecord(ctx, s.cfg.StudentID, qz.CourseID, qz.ID); err != nil {
		progressErr = err
	}

	s.mu.Lock()
	s.attempts = append([]quiz.Attempt{created}, s.attempts...)
	s.lastResult = &result
	s.lastAttempt = &created
	s.lastErr = nil
	s.mode = ModeShowingResults
	action := ActionSubmit
	if forced {
		action = ActionAutoSubmit
	}
	act := s.activityLocked(action)
	act.AttemptNumber = created.AttemptNumber
	act.Score = created.Score
	s.mu.Unlock()

	s.emit(ctx, act)
	if progressErr != nil {
		pa := act
		pa.Action = ActionProgressFailed
		pa.Detail = progressErr.Error()
		s.emit(ctx, pa)
	}
	return nil
}

// CloseResults leaves the results view, clears the answer buffer and runs
// the progress refresh callback.
func (s *Session) CloseResults() error {
	s.mu.Lock()
	if s.mode != ModeShowingResults {
		err := transitionError("close results", s.mode)
		s.mu.Unlock()
		return err
	}
	s.clearBufferLocked()
	s.lastResult = nil
	s.lastAttempt = nil
	s.mode = s.idleModeLocked()
	refresh := s.cfg.OnProgressRefresh
	s.mu.Unlock()

	if refresh != nil {
		refresh()
	}
	return nil
}

// Abandon discards the attempt in progress without persisting anything.
func (s *Session) Abandon() error {
	s.mu.Lock()
	if s.mode != ModeInProgress {
		err := transitionError("abandon", s.mode)
		s.mu.Unlock()
		return err
	}
	s.clearBufferLocked()
	s.lastErr = nil
	s.mode = s.idleModeLocked()
	act := s.activityLocked(ActionAbandon)
	s.mu.Unlock()

	s.emit(context.Background(), act)
	return nil
}

// StartReview replays the most recent attempt read-only. Correctness is
// recomputed against the current quiz definition.
func (s *Session) StartReview() error {
	s.mu.Lock()
	if s.mode != ModeNotStarted && s.mode != ModeExhausted {
		err := transitionError("review", s.mode)
		s.mu.Unlock()
		return err
	}
	if len(s.attempts) == 0 {
		s.mu.Unlock()
		return ErrNoAttempts
	}

	qz := s.cfg.Quiz
	latest := s.attempts[0]
	if len(latest.Answers) != len(qz.Questions) {
		s.mu.Unlock()
		return &InvariantError{Msg: fmt.Sprintf(
			"attempt %s has %d answers for %d questions", latest.ID, len(latest.Answers), len(qz.Questions))}
	}

	s.buffer = answer.DecodeAll(qz, latest.Answers)
	s.touched = nil
	result := s.cfg.Grader.Grade(qz, s.buffer)
	s.reviewResult = &result
	s.reviewAttempt = &latest
	s.index = 0
	s.mode = ModeReviewing
	act := s.activityLocked(ActionReview)
	act.AttemptNumber = latest.AttemptNumber
	act.Score = result.ScorePercentage
	s.mu.Unlock()

	s.emit(context.Background(), act)
	return nil
}

// CloseReview leaves review mode.
func (s *Session) CloseReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != ModeReviewing {
		return transitionError("close review", s.mode)
	}
	s.clearBufferLocked()
	s.reviewResult = nil
	s.reviewAttempt = nil
	s.mode = s.idleModeLocked()
	return nil
}

// Refresh reloads attempts and completed videos and re-evaluates the gate.
// The mode only changes between attempts.
func (s *Session) Refresh(ctx context.Context) error {
	attempts, completed, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = completed
	s.decision = access.Evaluate(s.cfg.Quiz, completed, s.cfg.Now())
	if s.mode.idle() {
		s.attempts = attempts
		s.mode = s.idleModeLocked()
	}
	return nil
}

func (s *Session) load(ctx context.Context) ([]quiz.Attempt, map[string]bool, error) {
	qz := s.cfg.Quiz
	attempts, err := s.cfg.Gateway.ListAttempts(ctx, s.cfg.StudentID, qz.ID)
	if err != nil {
		return nil, nil, &StorageError{Op: "list attempts", Err: err}
	}

	completed := map[string]bool{}
	if s.cfg.Videos != nil && qz.RequiresVideoCompletion {
		completed, err = s.cfg.Videos.CompletedVideoIDs(ctx, s.cfg.StudentID, qz.CourseID)
		if err != nil {
			return nil, nil, &StorageError{Op: "list completed videos", Err: err}
		}
	}
	return attempts, completed, nil
}

// idleModeLocked picks the mode between attempts. Exhaustion outranks the
// gate so that past attempts stay reviewable.
func (s *Session) idleModeLocked() Mode {
	if s.attemptsRemainingLocked() == 0 {
		return ModeExhausted
	}
	if !s.decision.Allowed {
		return ModeLocked
	}
	return ModeNotStarted
}

func (s *Session) attemptsRemainingLocked() int {
	limit := s.cfg.Quiz.MaxAttempts
	if limit <= 0 {
		return Unlimited
	}
	return max(limit-len(s.attempts), 0)
}

func (s *Session) clearBufferLocked() {
	s.buffer = nil
	s.touched = nil
	s.index = 0
	s.remaining = 0
}

func (s *Session) activityLocked(action Action) Activity {
	return Activity{
		SessionID: s.id,
		StudentID: s.cfg.StudentID,
		QuizID:    s.cfg.Quiz.ID,
		CourseID:  s.cfg.Quiz.CourseID,
		Action:    action,
		At:        s.cfg.Now(),
	}
}

func (s *Session) emit(ctx context.Context, a Activity) {
	if s.cfg.Sink == nil {
		return
	}
	_ = s.cfg.Sink.RecordActivity(ctx, a)
}

// timeTakenMinutes uses the countdown for timed quizzes and the clock
// otherwise.
func timeTakenMinutes(qz *quiz.Quiz, remaining int, startedAt, now time.Time) int {
	var seconds float64
	if qz.Timed() {
		seconds = float64(qz.TimeLimitSeconds() - remaining)
	} else {
		seconds = now.Sub(startedAt).Seconds()
	}
	if seconds < 0 {
		return 0
	}
	return int(math.Round(seconds / 60))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
