package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/grading"
	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	"github.com/abhisek/proctor/internal/ui/layout"
	"github.com/abhisek/proctor/internal/ui/theme"
)

// Limit caps how many attempts the screen loads.
const Limit = 50

// AttemptLister lists a student's attempts across quizzes, newest first.
type AttemptLister interface {
	ListForStudent(ctx context.Context, studentID string, limit int) ([]quiz.Attempt, error)
}

type historyLoadedMsg struct {
	Attempts []quiz.Attempt
	Err      error
}

// HistoryScreen displays past attempts with per-question results.
type HistoryScreen struct {
	lister    AttemptLister
	quizzes   map[string]*quiz.Quiz
	studentID string
	attempts  []quiz.Attempt
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. Attempts at quizzes missing from
// quizzes are listed without details.
func New(lister AttemptLister, quizzes []*quiz.Quiz, studentID string) *HistoryScreen {
	byID := make(map[string]*quiz.Quiz, len(quizzes))
	for _, qz := range quizzes {
		byID[qz.ID] = qz
	}
	return &HistoryScreen{
		lister:    lister,
		quizzes:   byID,
		studentID: studentID,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	lister, studentID := s.lister, s.studentID
	return func() tea.Msg {
		attempts, err := lister.ListForStudent(context.Background(), studentID, Limit)
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		title := a.QuizID
		passed := false
		qz := s.quizzes[a.QuizID]
		if qz != nil {
			title = qz.Title
			passed = a.Score >= qz.EffectivePassingScore()
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-28s  attempt %d  %3d%%  %d min",
			prefix, a.CompletedAt.Local().Format("Jan 02, 2006 15:04"), truncate(title, 28),
			a.AttemptNumber, a.Score, a.TimeTakenMinutes)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		mark := theme.Incorrect.Render(" ✗")
		if passed {
			mark = theme.Correct.Render(" ✓")
		}
		b.WriteString(style.Render(line) + mark)
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderDetails(qz, a))
		}
	}

	return b.String()
}

// renderDetails lists each question with the stored answer, graded against
// the current quiz definition.
func renderDetails(qz *quiz.Quiz, a quiz.Attempt) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if qz == nil {
		return dim.Render("      Quiz definition not available") + "\n"
	}
	if len(a.Answers) != len(qz.Questions) {
		return dim.Render(fmt.Sprintf("      Stored answers (%d) do not match the quiz (%d questions)",
			len(a.Answers), len(qz.Questions))) + "\n"
	}

	values := answer.DecodeAll(qz, a.Answers)
	res := grading.Grade(qz, values)

	var b strings.Builder
	for i, q := range qz.Questions {
		mark := theme.Incorrect.Render("✗")
		if res.Correct[i] {
			mark = theme.Correct.Render("✓")
		}
		b.WriteString(fmt.Sprintf("      %s %d. %s\n", mark, i+1, truncate(q.Text, 60)))
		b.WriteString(dim.Render("           "+answer.Describe(q, values[i])) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
