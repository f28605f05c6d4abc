package home

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/router"
	"github.com/abhisek/proctor/internal/screen"
	quizscreen "github.com/abhisek/proctor/internal/screens/assessment"
)

type fakeGateway struct {
	attempts map[string][]quiz.Attempt
	videos   map[string]bool
	err      error
}

func (g *fakeGateway) ListAttempts(_ context.Context, _, quizID string) ([]quiz.Attempt, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.attempts[quizID], nil
}

func (g *fakeGateway) CreateAttempt(context.Context, quiz.AttemptInput) (quiz.Attempt, error) {
	return quiz.Attempt{}, errors.New("read only")
}

func (g *fakeGateway) CreateProgressRecord(context.Context, string, string, string) error {
	return nil
}

func (g *fakeGateway) CompletedVideoIDs(context.Context, string, string) (map[string]bool, error) {
	return g.videos, nil
}

func quizzes() []*quiz.Quiz {
	return []*quiz.Quiz{
		{ID: "q-open", Title: "Open quiz", MaxAttempts: 3, TimeLimitMinutes: 10,
			Questions: []quiz.Question{{ID: "a"}, {ID: "b"}}},
		{ID: "q-done", Title: "Finished quiz", MaxAttempts: 1,
			Questions: []quiz.Question{{ID: "a"}}},
		{ID: "q-locked", Title: "Locked quiz", RequiresVideoCompletion: true, PrerequisiteVideoIDs: []string{"v1"},
			Questions: []quiz.Question{{ID: "a"}}},
	}
}

func loaded(t *testing.T, gw *fakeGateway) *HomeScreen {
	t.Helper()
	h := New(Deps{Quizzes: quizzes(), Quiz: quizscreen.Deps{StudentID: "stu", Gateway: gw, Videos: gw}})
	h.Update(h.Init()())
	return h
}

func TestSummaries(t *testing.T) {
	gw := &fakeGateway{attempts: map[string][]quiz.Attempt{
		"q-open": {{Score: 40}, {Score: 55}},
		"q-done": {{Score: 90}},
	}}
	h := loaded(t, gw)

	if len(h.summaries) != 3 {
		t.Fatalf("summaries = %d, want 3", len(h.summaries))
	}
	open, done, locked := h.summaries[0], h.summaries[1], h.summaries[2]
	if open.AttemptsUsed != 2 || open.BestScore != 55 || open.Passed {
		t.Errorf("open summary = %+v", open)
	}
	if !done.Passed || !done.Exhausted() {
		t.Errorf("done summary = %+v", done)
	}
	if locked.Access.Allowed {
		t.Error("locked quiz should be denied")
	}

	view := ansi.Strip(h.View(100, 30))
	for _, want := range []string{"Open quiz", "2/3 attempts", "PASSED 90%", "LOCKED", "v1", "History", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestOpenQuizPushesScreen(t *testing.T) {
	h := loaded(t, &fakeGateway{})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Open quiz" {
		t.Errorf("pushed %q", msg.Screen.Title())
	}
}

func TestResumeReloads(t *testing.T) {
	gw := &fakeGateway{}
	h := loaded(t, gw)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	gw.attempts = map[string][]quiz.Attempt{"q-open": {{Score: 70}}}
	_, cmd := h.Update(screen.ResumedMsg{})
	if cmd == nil {
		t.Fatal("resume should reload")
	}
	h.Update(cmd())
	if h.summaries[0].BestScore != 70 {
		t.Errorf("best score = %d after reload", h.summaries[0].BestScore)
	}
	if h.menu.Selected != 1 {
		t.Errorf("selection lost on reload: %d", h.menu.Selected)
	}
}

func TestLoadError(t *testing.T) {
	h := loaded(t, &fakeGateway{err: errors.New("db locked")})
	view := ansi.Strip(h.View(100, 30))
	if !strings.Contains(view, "db locked") {
		t.Errorf("view should show load error:\n%s", view)
	}
	if !strings.Contains(view, "Quit") {
		t.Error("menu should still offer Quit")
	}
}
