// Package welcome shows a short splash with the signed-in student before
// handing over to the quiz list.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	"github.com/abhisek/proctor/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	greetingAt   = 600 * time.Millisecond
	autoContinue = 3 * time.Second
)

type tickMsg time.Time

// WelcomeScreen greets the student, then replaces itself with the screen
// produced by next on a key press or after a short delay.
type WelcomeScreen struct {
	next         func() screen.Screen
	student      string
	quizCount    int
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen.
func New(student string, quizCount int, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next, student: student, quizCount: quizCount}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= autoContinue {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	if w.elapsed >= greetingAt {
		greeting := "Welcome back"
		if w.student != "" {
			greeting += ", " + w.student
		}
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(greeting),
			theme.Subtitle.Render(quizCountLabel(w.quizCount)),
			"",
			theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func quizCountLabel(n int) string {
	switch n {
	case 0:
		return "No quizzes are available yet."
	case 1:
		return "1 quiz is available."
	}
	return fmt.Sprintf("%d quizzes are available.", n)
}
