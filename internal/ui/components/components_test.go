package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Locked", Disabled: true},
		{Label: "Open"},
		{Label: "Closed", Disabled: true},
		{Label: "History"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("down at bottom moved cursor to %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up Selected = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run on enter")
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "0:00", 59: "0:59", 61: "1:01", 600: "10:00", -5: "0:00"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestProgressFraction(t *testing.T) {
	if f := NewProgressBar("", 3, 0, 20).Fraction(); f != 0 {
		t.Errorf("zero total fraction = %v", f)
	}
	if f := NewProgressBar("", 5, 4, 20).Fraction(); f != 1 {
		t.Errorf("overfull fraction = %v", f)
	}
	if f := NewProgressBar("", 1, 4, 20).Fraction(); f != 0.25 {
		t.Errorf("fraction = %v, want 0.25", f)
	}
}

func TestChoiceListMarks(t *testing.T) {
	out := ChoiceList{
		Choices: []Choice{
			{Label: "TCP", Checked: true, Mark: MarkCorrect},
			{Label: "HTTP", Checked: true, Mark: MarkIncorrect},
			{Label: "UDP", Mark: MarkMissed},
		},
		Numbered: true,
	}.View()
	for _, want := range []string{"[x] 1) TCP", "✓", "✗", "3) UDP", "(correct answer)"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestMatrixGridRendersCells(t *testing.T) {
	out := MatrixGrid{
		Rows:    []string{"Cat", "Salmon"},
		Columns: []string{"Mammal", "Fish"},
		Checked: func(r, c int) bool { return r == c },
	}.View()
	for _, want := range []string{"Cat", "Salmon", "Mammal", "Fish", "[x]", "[ ]"} {
		if !strings.Contains(out, want) {
			t.Errorf("grid missing %q:\n%s", want, out)
		}
	}
}
