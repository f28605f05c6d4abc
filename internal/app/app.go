package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	quizscreen "github.com/abhisek/proctor/internal/screens/assessment"
	"github.com/abhisek/proctor/internal/screens/history"
	"github.com/abhisek/proctor/internal/screens/home"
	"github.com/abhisek/proctor/internal/screens/welcome"
	"github.com/abhisek/proctor/internal/store"
	"github.com/abhisek/proctor/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Quizzes   []*quiz.Quiz
	Store     *store.Store
	StudentID string
	Explainer quizscreen.Explainer // optional
	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	student string
	width   int
	height  int
}

// newAppModel creates a new AppModel with the welcome screen in front of
// the quiz list.
func newAppModel(opts Options) AppModel {
	gw := opts.Store.Gateway()
	deps := home.Deps{
		Quizzes: opts.Quizzes,
		Quiz: quizscreen.Deps{
			StudentID: opts.StudentID,
			Gateway:   gw,
			Videos:    gw,
			Sink:      gw,
			Explainer: opts.Explainer,
		},
		History: history.AttemptLister(opts.Store.AttemptRepo()),
	}
	homeFactory := func() screen.Screen { return home.New(deps) }

	var first screen.Screen = welcome.New(opts.StudentID, len(opts.Quizzes), homeFactory)
	if opts.SkipIntro {
		first = homeFactory()
	}
	return AppModel{
		router:  router.New(first),
		student: opts.StudentID,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.student, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if footerHints == nil {
		if m.router.Depth() > 1 {
			footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
		} else {
			footerHints = []layout.KeyHint{{Key: "Any key", Description: "Continue"}}
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
