// Package assessment is the screen for taking, submitting and reviewing a
// quiz. It drives an assessment.Session and owns its countdown.
package assessment

import (
	"context"
	"errors"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/proctor/internal/answer"
	asmt "github.com/abhisek/proctor/internal/assessment"
	"github.com/abhisek/proctor/internal/explain"
	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	"github.com/abhisek/proctor/internal/ui/layout"
)

// Explainer resolves review feedback for a question.
type Explainer interface {
	Generative() bool
	Explain(ctx context.Context, qz *quiz.Quiz, idx int, v answer.Value, correct bool) (*explain.Explanation, error)
}

// Deps are the collaborators a quiz screen needs.
type Deps struct {
	StudentID string
	Gateway   asmt.AttemptGateway
	Videos    asmt.VideoProgress
	Sink      asmt.ActivitySink
	Explainer Explainer // optional

	// Now defaults to time.Now.
	Now func() time.Time
}

// Screen implements screen.Screen for one quiz.
type Screen struct {
	deps    Deps
	quiz    *quiz.Quiz
	session *asmt.Session
	keys    keyMap

	errMsg string // load failure, the screen is unusable
	notice string // last operation failure, shown inline

	// Widget state for the current question.
	cursor  int
	col     int
	grabbed bool

	confirmAbandon bool
	submitting     bool

	explanations map[int]*explain.Explanation
	explainErr   map[int]string
	explaining   map[int]bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.EscapeHandler   = (*Screen)(nil)
)

// New creates a quiz screen. The session is loaded by Init.
func New(qz *quiz.Quiz, deps Deps) *Screen {
	return &Screen{
		deps:         deps,
		quiz:         qz,
		keys:         defaultKeyMap(),
		explanations: make(map[int]*explain.Explanation),
		explainErr:   make(map[int]string),
		explaining:   make(map[int]bool),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.loadSession()
}

func (s *Screen) Title() string {
	return s.quiz.Title
}

// HandlesEscape keeps Esc inside the screen while an attempt, its results
// or a review is on screen.
func (s *Screen) HandlesEscape() bool {
	if s.session == nil {
		return false
	}
	switch s.session.State().Mode {
	case asmt.ModeInProgress, asmt.ModeSubmitting, asmt.ModeShowingResults, asmt.ModeReviewing:
		return true
	}
	return false
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.session == nil {
		return nil
	}
	k := s.keys
	if s.confirmAbandon {
		return layout.HintsFrom(k.Confirm, k.Cancel)
	}

	st := s.session.State()
	switch st.Mode {
	case asmt.ModeInProgress:
		hints := []key.Binding{k.Up}
		switch s.currentQuestion().Type {
		case quiz.TypeMatrix:
			hints = append(hints, k.Left, k.Toggle)
		case quiz.TypeRanking:
			hints = append(hints, k.Grab)
		default:
			hints = append(hints, k.Toggle)
		}
		return layout.HintsFrom(append(hints, k.Next, k.Prev, k.Submit, k.Back)...)
	case asmt.ModeShowingResults:
		return layout.HintsFrom(k.Done)
	case asmt.ModeReviewing:
		hints := []key.Binding{k.Next, k.Prev}
		if s.canGenerate(st.CurrentQuestionIndex) {
			hints = append(hints, k.Explain)
		}
		return layout.HintsFrom(append(hints, k.Back)...)
	case asmt.ModeSubmitting:
		return nil
	}

	var hints []key.Binding
	if st.CanStart() {
		hints = append(hints, k.Start)
	}
	if st.CanReview() {
		hints = append(hints, k.Review)
	}
	return layout.HintsFrom(append(hints, k.Refresh, k.Back)...)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.session = msg.Session
		return s, tickCmd(s.session.ID())

	case tickMsg:
		if s.session == nil || msg.SessionID != s.session.ID() {
			return s, nil
		}
		return s, tea.Batch(tickCmd(msg.SessionID), s.tick())

	case tickedMsg:
		// A manual submit that won the race owns or already finished the save.
		if msg.Err != nil && !errors.Is(msg.Err, asmt.ErrSubmitInFlight) && !errors.Is(msg.Err, asmt.ErrInvalidTransition) {
			s.notice = "Time is up, but saving failed: " + msg.Err.Error()
		}
		return s, nil

	case submittedMsg:
		s.submitting = false
		if msg.Err != nil && !errors.Is(msg.Err, asmt.ErrSubmitInFlight) {
			s.notice = "Could not save your attempt: " + msg.Err.Error()
		}
		return s, nil

	case refreshedMsg:
		s.notice = ""
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, nil

	case explainedMsg:
		delete(s.explaining, msg.Index)
		if msg.Err != nil {
			s.explainErr[msg.Index] = msg.Err.Error()
			return s, nil
		}
		delete(s.explainErr, msg.Index)
		s.explanations[msg.Index] = msg.Explanation
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" || s.session == nil {
		return s, nil
	}
	k := s.keys

	if s.confirmAbandon {
		switch {
		case key.Matches(msg, k.Confirm):
			s.confirmAbandon = false
			s.setNotice(s.session.Abandon())
		case key.Matches(msg, k.Cancel):
			s.confirmAbandon = false
		}
		return s, nil
	}

	st := s.session.State()
	switch st.Mode {
	case asmt.ModeInProgress:
		return s.handleAnswering(msg)

	case asmt.ModeShowingResults:
		if key.Matches(msg, k.Done) {
			s.setNotice(s.session.CloseResults())
		}
		return s, nil

	case asmt.ModeReviewing:
		return s.handleReviewing(msg)

	case asmt.ModeLocked, asmt.ModeNotStarted, asmt.ModeExhausted:
		switch {
		case key.Matches(msg, k.Start):
			if err := s.session.Start(); err != nil {
				s.notice = err.Error()
				return s, nil
			}
			s.notice = ""
			s.resetWidget()
		case key.Matches(msg, k.Review):
			if err := s.session.StartReview(); err != nil {
				s.notice = err.Error()
				return s, nil
			}
			s.notice = ""
			s.resetWidget()
			return s, s.autoExplain()
		case key.Matches(msg, k.Refresh):
			return s, s.refresh()
		case key.Matches(msg, k.Back):
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) handleAnswering(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := s.keys
	switch {
	case key.Matches(msg, k.Back):
		s.confirmAbandon = true
		return s, nil
	case key.Matches(msg, k.Submit):
		return s, s.submit()
	case key.Matches(msg, k.Next):
		s.navigate(1)
		return s, nil
	case key.Matches(msg, k.Prev):
		s.navigate(-1)
		return s, nil
	}

	idx := s.session.State().CurrentQuestionIndex
	q := s.currentQuestion()
	switch q.Type {
	case quiz.TypeMultipleChoice:
		switch {
		case key.Matches(msg, k.Up):
			s.cursor = max(s.cursor-1, 0)
		case key.Matches(msg, k.Down):
			s.cursor = min(s.cursor+1, len(q.Options)-1)
		case key.Matches(msg, k.Toggle):
			s.apply(idx, answer.SelectOption{Index: s.cursor})
		default:
			if n, ok := digit(msg); ok && n < len(q.Options) {
				s.cursor = n
				s.apply(idx, answer.SelectOption{Index: n})
			}
		}

	case quiz.TypeMatrix:
		switch {
		case key.Matches(msg, k.Up):
			s.cursor = max(s.cursor-1, 0)
		case key.Matches(msg, k.Down):
			s.cursor = min(s.cursor+1, len(q.MatrixRows)-1)
		case key.Matches(msg, k.Left):
			s.col = max(s.col-1, 0)
		case key.Matches(msg, k.Right):
			s.col = min(s.col+1, len(q.MatrixColumns)-1)
		case key.Matches(msg, k.Toggle):
			s.apply(idx, answer.ToggleCell{Row: s.cursor, Col: s.col})
		}

	case quiz.TypeRanking:
		switch {
		case key.Matches(msg, k.Grab):
			s.grabbed = !s.grabbed
		case key.Matches(msg, k.Up):
			s.moveRanked(idx, -1, len(q.Options))
		case key.Matches(msg, k.Down):
			s.moveRanked(idx, 1, len(q.Options))
		}
	}
	return s, nil
}

// moveRanked moves the cursor, carrying the grabbed item with it.
func (s *Screen) moveRanked(idx, delta, n int) {
	to := min(max(s.cursor+delta, 0), n-1)
	if to == s.cursor {
		return
	}
	if s.grabbed {
		if !s.apply(idx, answer.MoveOption{From: s.cursor, To: to}) {
			return
		}
	}
	s.cursor = to
}

func (s *Screen) handleReviewing(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	k := s.keys
	switch {
	case key.Matches(msg, k.Back):
		s.setNotice(s.session.CloseReview())
		s.resetWidget()
	case key.Matches(msg, k.Next):
		s.navigate(1)
		return s, s.autoExplain()
	case key.Matches(msg, k.Prev):
		s.navigate(-1)
		return s, s.autoExplain()
	case key.Matches(msg, k.Explain):
		idx := s.session.State().CurrentQuestionIndex
		if s.canGenerate(idx) {
			return s, s.explain(idx)
		}
	}
	return s, nil
}

func (s *Screen) apply(idx int, in answer.Input) bool {
	if err := s.session.Answer(idx, in); err != nil {
		s.notice = err.Error()
		return false
	}
	s.notice = ""
	return true
}

func (s *Screen) navigate(delta int) {
	before := s.session.State().CurrentQuestionIndex
	s.setNotice(s.session.Navigate(delta))
	if s.session.State().CurrentQuestionIndex != before {
		s.resetWidget()
	}
}

func (s *Screen) resetWidget() {
	s.cursor, s.col, s.grabbed = 0, 0, false
}

func (s *Screen) setNotice(err error) {
	s.notice = ""
	if err != nil {
		s.notice = err.Error()
	}
}

func (s *Screen) currentQuestion() quiz.Question {
	idx := s.session.State().CurrentQuestionIndex
	return s.quiz.Questions[idx]
}

// canGenerate reports whether "explain" would call the model for question idx.
func (s *Screen) canGenerate(idx int) bool {
	if s.deps.Explainer == nil || !s.deps.Explainer.Generative() {
		return false
	}
	if s.quiz.Questions[idx].Explanation != "" {
		return false
	}
	return s.explanations[idx] == nil && !s.explaining[idx]
}

// autoExplain fetches authored explanations as soon as a question is shown
// in review. Generated ones wait for an explicit request.
func (s *Screen) autoExplain() tea.Cmd {
	st := s.session.State()
	if st.Mode != asmt.ModeReviewing {
		return nil
	}
	idx := st.CurrentQuestionIndex
	if s.quiz.Questions[idx].Explanation == "" || s.explanations[idx] != nil {
		return nil
	}
	return s.explain(idx)
}

func (s *Screen) explain(idx int) tea.Cmd {
	st := s.session.State()
	if st.ReviewResult == nil {
		return nil
	}
	s.explaining[idx] = true
	qz := s.quiz
	v := s.session.AnswerAt(idx)
	correct := st.ReviewResult.Correct[idx]
	explainer := s.deps.Explainer
	return func() tea.Msg {
		if explainer == nil {
			return explainedMsg{Index: idx, Err: explain.ErrUnavailable}
		}
		ex, err := explainer.Explain(context.Background(), qz, idx, v, correct)
		return explainedMsg{Index: idx, Explanation: ex, Err: err}
	}
}

// Digits 1-9 pick multiple-choice options directly.
func digit(msg tea.KeyPressMsg) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (s *Screen) loadSession() tea.Cmd {
	qz := s.quiz
	deps := s.deps
	return func() tea.Msg {
		sess, err := asmt.New(context.Background(), asmt.Config{
			Quiz:      qz,
			StudentID: deps.StudentID,
			Gateway:   deps.Gateway,
			Videos:    deps.Videos,
			Sink:      deps.Sink,
			Now:       deps.Now,
		})
		return sessionLoadedMsg{Session: sess, Err: err}
	}
}

func tickCmd(sessionID string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{SessionID: sessionID}
	})
}

func (s *Screen) tick() tea.Cmd {
	sess := s.session
	return func() tea.Msg {
		return tickedMsg{Err: sess.Tick(context.Background())}
	}
}

func (s *Screen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	sess := s.session
	s.submitting = true
	s.notice = ""
	return func() tea.Msg {
		return submittedMsg{Err: sess.Submit(context.Background())}
	}
}

func (s *Screen) refresh() tea.Cmd {
	sess := s.session
	return func() tea.Msg {
		return refreshedMsg{Err: sess.Refresh(context.Background())}
	}
}
