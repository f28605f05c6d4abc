package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/ui/theme"
)

// Mark annotates an option when an attempt is replayed.
type Mark int

const (
	MarkNone      Mark = iota
	MarkCorrect        // chosen and correct
	MarkIncorrect      // chosen but wrong
	MarkMissed         // correct but not chosen
)

// Choice is one row of a ChoiceList.
type Choice struct {
	Label   string
	Checked bool
	Mark    Mark
}

// ChoiceList renders checkbox options with a cursor. Numbered lists show a
// 1-based shortcut in front of each option.
type ChoiceList struct {
	Choices  []Choice
	Cursor   int
	Numbered bool
	Focused  bool
}

// View renders the list.
func (l ChoiceList) View() string {
	var b strings.Builder
	for i, c := range l.Choices {
		box := "[ ]"
		if c.Checked {
			box = "[x]"
		}
		prefix := "  "
		if l.Focused && i == l.Cursor {
			prefix = "▸ "
		}
		num := ""
		if l.Numbered && i < 9 {
			num = fmt.Sprintf("%d) ", i+1)
		}
		line := prefix + box + " " + num + c.Label + markSuffix(c.Mark)
		b.WriteString(choiceStyle(c, l.Focused && i == l.Cursor).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// RankedList renders a ranking: one option per position, in the student's
// order. Grabbed marks the item being carried by the cursor.
type RankedList struct {
	Items   []Choice
	Cursor  int
	Grabbed bool
	Focused bool
}

// View renders the list.
func (l RankedList) View() string {
	var b strings.Builder
	for i, c := range l.Items {
		prefix := "   "
		if l.Focused && i == l.Cursor {
			prefix = " ▸ "
			if l.Grabbed {
				prefix = " ⇅ "
			}
		}
		line := fmt.Sprintf("%s%d. %s%s", prefix, i+1, c.Label, markSuffix(c.Mark))
		b.WriteString(choiceStyle(c, l.Focused && i == l.Cursor).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func choiceStyle(c Choice, current bool) lipgloss.Style {
	switch c.Mark {
	case MarkCorrect:
		return theme.Correct
	case MarkIncorrect:
		return theme.Incorrect
	case MarkMissed:
		return theme.Hint
	}
	if current {
		return theme.Selected
	}
	return theme.Unselected
}

func markSuffix(m Mark) string {
	switch m {
	case MarkCorrect:
		return "  ✓"
	case MarkIncorrect:
		return "  ✗"
	case MarkMissed:
		return "  (correct answer)"
	}
	return ""
}
