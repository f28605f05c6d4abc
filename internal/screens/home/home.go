package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/access"
	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	quizscreen "github.com/abhisek/proctor/internal/screens/assessment"
	"github.com/abhisek/proctor/internal/screens/history"
	"github.com/abhisek/proctor/internal/ui/components"
	"github.com/abhisek/proctor/internal/ui/layout"
	"github.com/abhisek/proctor/internal/ui/theme"
)

// Deps are what the home screen needs to list quizzes and open them.
type Deps struct {
	Quizzes []*quiz.Quiz
	Quiz    quizscreen.Deps
	History history.AttemptLister
}

// QuizSummary is the student's standing on one quiz.
type QuizSummary struct {
	Quiz         *quiz.Quiz
	AttemptsUsed int
	BestScore    int
	Passed       bool
	Access       access.Decision
}

// Exhausted reports whether every permitted attempt is used.
func (q QuizSummary) Exhausted() bool {
	return q.Quiz.MaxAttempts > 0 && q.AttemptsUsed >= q.Quiz.MaxAttempts
}

type summariesLoadedMsg struct {
	Summaries []QuizSummary
	Err       error
}

// HomeScreen lists the student's quizzes.
type HomeScreen struct {
	deps      Deps
	summaries []QuizSummary
	menu      components.Menu
	loaded    bool
	errMsg    string
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	return &HomeScreen{deps: deps}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "Quizzes"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summariesLoadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		}
		h.summaries = msg.Summaries
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected > 0 && selected < len(h.menu.Items) {
			h.menu.Selected = selected
		}
		return h, nil

	case screen.ResumedMsg:
		return h, h.load()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(h.summaries)+2)
	for _, sum := range h.summaries {
		qz := sum.Quiz
		items = append(items, components.MenuItem{
			Label:  qz.Title,
			Badge:  badge(sum),
			Detail: detail(sum),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: quizscreen.New(qz, h.deps.Quiz)}
				}
			},
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "History",
			Disabled: h.deps.History == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: history.New(h.deps.History, h.deps.Quizzes, h.deps.Quiz.StudentID)}
				}
			},
		},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	return items
}

func badge(sum QuizSummary) string {
	switch {
	case sum.Passed:
		return theme.BadgePassed.Render(fmt.Sprintf("PASSED %d%%", sum.BestScore))
	case sum.Exhausted():
		return theme.BadgeFailed.Render(fmt.Sprintf("BEST %d%%", sum.BestScore))
	case !sum.Access.Allowed:
		return theme.BadgeLocked.Render("LOCKED")
	case sum.AttemptsUsed > 0:
		return theme.BadgeMuted.Render(fmt.Sprintf("BEST %d%%", sum.BestScore))
	}
	return ""
}

func detail(sum QuizSummary) string {
	qz := sum.Quiz
	parts := []string{fmt.Sprintf("%d questions", len(qz.Questions))}
	if qz.Timed() {
		parts = append(parts, fmt.Sprintf("%d min", qz.TimeLimitMinutes))
	}
	if qz.MaxAttempts > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d attempts", sum.AttemptsUsed, qz.MaxAttempts))
	} else {
		parts = append(parts, fmt.Sprintf("%d attempts", sum.AttemptsUsed))
	}
	if !sum.Access.Allowed && !sum.Exhausted() {
		parts = append(parts, sum.Access.Message())
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) View(width, height int) string {
	if !h.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading quizzes...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("  Your quizzes"))
	b.WriteString("\n\n")
	if h.errMsg != "" {
		b.WriteString(theme.ErrorText.Render("  "+h.errMsg) + "\n\n")
	}
	if len(h.summaries) == 0 && h.errMsg == "" {
		b.WriteString(theme.Hint.Render("  No quizzes found.") + "\n\n")
	}
	b.WriteString(h.menu.View())
	return b.String()
}

// load builds a summary per quiz from the student's attempts and watched
// videos. A failure on one quiz fails the whole load.
func (h *HomeScreen) load() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now
		if deps.Quiz.Now != nil {
			now = deps.Quiz.Now
		}

		out := make([]QuizSummary, 0, len(deps.Quizzes))
		for _, qz := range deps.Quizzes {
			sum := QuizSummary{Quiz: qz}
			if deps.Quiz.Gateway != nil {
				attempts, err := deps.Quiz.Gateway.ListAttempts(ctx, deps.Quiz.StudentID, qz.ID)
				if err != nil {
					return summariesLoadedMsg{Err: fmt.Errorf("load attempts for %s: %w", qz.ID, err)}
				}
				sum.AttemptsUsed = len(attempts)
				for _, a := range attempts {
					sum.BestScore = max(sum.BestScore, a.Score)
				}
				sum.Passed = sum.AttemptsUsed > 0 && sum.BestScore >= qz.EffectivePassingScore()
			}

			completed := map[string]bool{}
			if deps.Quiz.Videos != nil && qz.RequiresVideoCompletion {
				var err error
				completed, err = deps.Quiz.Videos.CompletedVideoIDs(ctx, deps.Quiz.StudentID, qz.CourseID)
				if err != nil {
					return summariesLoadedMsg{Err: fmt.Errorf("load videos for %s: %w", qz.CourseID, err)}
				}
			}
			sum.Access = access.Evaluate(qz, completed, now())
			out = append(out, sum)
		}
		return summariesLoadedMsg{Summaries: out}
	}
}
