package components

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/proctor/internal/ui/theme"
)

// MatrixGrid renders a matrix question as a table of checkboxes: one row
// per statement, one column per category.
type MatrixGrid struct {
	Rows    []string
	Columns []string
	Checked func(row, col int) bool
	// Mark is optional and only set when replaying an attempt.
	Mark      func(row, col int) Mark
	CursorRow int
	CursorCol int
	Focused   bool
}

// View renders the grid.
func (g MatrixGrid) View() string {
	data := make([][]string, len(g.Rows))
	for r, name := range g.Rows {
		row := make([]string, 0, len(g.Columns)+1)
		row = append(row, name)
		for c := range g.Columns {
			cell := "[ ]"
			if g.Checked != nil && g.Checked(r, c) {
				cell = "[x]"
			}
			row = append(row, cell)
		}
		data[r] = row
	}

	headers := append([]string{""}, g.Columns...)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(theme.Rule).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(theme.Subtitle).Bold(true)
			}
			if col == 0 {
				return base.Inherit(theme.Body)
			}
			base = base.Align(lipgloss.Center)
			if g.Mark != nil {
				switch g.Mark(row, col-1) {
				case MarkCorrect:
					return base.Inherit(theme.Correct)
				case MarkIncorrect:
					return base.Inherit(theme.Incorrect)
				case MarkMissed:
					return base.Inherit(theme.Hint).Underline(true)
				}
			}
			if g.Focused && row == g.CursorRow && col-1 == g.CursorCol {
				return base.Inherit(theme.Selected).Reverse(true)
			}
			return base.Inherit(theme.Unselected)
		}).
		Render()
}
