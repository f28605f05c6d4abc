package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/access"
	"github.com/abhisek/proctor/internal/answer"
	asmt "github.com/abhisek/proctor/internal/assessment"
	"github.com/abhisek/proctor/internal/quiz"
	"github.com/abhisek/proctor/internal/ui/components"
	"github.com/abhisek/proctor/internal/ui/layout"
	"github.com/abhisek/proctor/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return renderMessage(width, theme.ErrorText.Render("Could not load quiz: "+s.errMsg)+"\n\n"+
			theme.Hint.Render("Press Esc to go back"))
	}
	if s.session == nil {
		return renderMessage(width, theme.Subtitle.Render("Loading..."))
	}
	if s.confirmAbandon {
		return renderMessage(width, theme.Title.Render("Leave this attempt?")+"\n\n"+
			theme.Body.Render("Your answers will be discarded and no attempt is recorded.")+"\n\n"+
			theme.Hint.Render("Y to leave, N to keep going"))
	}

	st := s.session.State()
	switch st.Mode {
	case asmt.ModeInProgress:
		return s.renderQuestion(st, width)
	case asmt.ModeSubmitting:
		return renderMessage(width, theme.Subtitle.Render("Submitting your answers..."))
	case asmt.ModeShowingResults:
		return s.renderResults(st, width)
	case asmt.ModeReviewing:
		return s.renderQuestion(st, width)
	}
	return s.renderOverview(st, width)
}

func renderMessage(width int, content string) string {
	return "\n\n" + lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// renderOverview is shown between attempts.
func (s *Screen) renderOverview(st asmt.State, width int) string {
	qz := s.quiz
	var b strings.Builder

	b.WriteString(theme.Title.Render(qz.Title))
	b.WriteString("  ")
	b.WriteString(statusBadge(st))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Questions", fmt.Sprintf("%d (%d points)", len(qz.Questions), qz.TotalPoints())},
		{"Time limit", timeLimitLabel(qz)},
		{"Passing score", fmt.Sprintf("%d%%", qz.EffectivePassingScore())},
		{"Attempts", attemptsLabel(st, qz)},
	}
	if attempts := s.session.Attempts(); len(attempts) > 0 {
		best := attempts[0].Score
		for _, a := range attempts {
			best = max(best, a.Score)
		}
		rows = append(rows,
			[2]string{"Latest score", fmt.Sprintf("%d%%", attempts[0].Score)},
			[2]string{"Best score", fmt.Sprintf("%d%%", best)})
	}
	if a := qz.Availability; a != nil && a.ClosesAt != nil && st.Access.Allowed {
		rows = append(rows, [2]string{"Closes", a.ClosesAt.Local().Format(access.DateLayout)})
	}
	for _, r := range rows {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%-14s", r[0])))
		b.WriteString(theme.Body.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch st.Mode {
	case asmt.ModeLocked:
		b.WriteString(theme.ErrorText.Render(st.Access.Message()))
	case asmt.ModeExhausted:
		b.WriteString(theme.Body.Render("You have used every attempt for this quiz."))
	case asmt.ModeNotStarted:
		if qz.Timed() {
			b.WriteString(theme.Body.Render(
				"The timer starts when you press Enter and your answers are submitted when it reaches zero."))
		} else {
			b.WriteString(theme.Body.Render("Press Enter to begin."))
		}
	}
	if s.notice != "" {
		b.WriteString("\n\n" + theme.ErrorText.Render(s.notice))
	}

	cardWidth := min(width-4, 72)
	return layout.Center(width, theme.Card.Width(cardWidth).Render(b.String()))
}

func statusBadge(st asmt.State) string {
	switch st.Mode {
	case asmt.ModeLocked:
		return theme.BadgeLocked.Render("LOCKED")
	case asmt.ModeExhausted:
		return theme.BadgeMuted.Render("NO ATTEMPTS LEFT")
	}
	return theme.BadgePassed.Render("OPEN")
}

func timeLimitLabel(qz *quiz.Quiz) string {
	if !qz.Timed() {
		return "None"
	}
	return fmt.Sprintf("%d min", qz.TimeLimitMinutes)
}

func attemptsLabel(st asmt.State, qz *quiz.Quiz) string {
	if st.AttemptsRemaining == asmt.Unlimited {
		return fmt.Sprintf("%d used, unlimited", st.AttemptsUsed)
	}
	return fmt.Sprintf("%d of %d used", st.AttemptsUsed, qz.MaxAttempts)
}

// renderQuestion shows the current question, editable while answering and
// annotated while reviewing.
func (s *Screen) renderQuestion(st asmt.State, width int) string {
	idx := st.CurrentQuestionIndex
	q := s.quiz.Questions[idx]
	reviewing := st.Mode == asmt.ModeReviewing
	v := s.session.AnswerAt(idx)

	var b strings.Builder

	left := theme.Subtitle.Render(fmt.Sprintf("  Question %d of %d", idx+1, st.QuestionCount))
	var right string
	if reviewing {
		right = reviewBadge(st)
	} else {
		right = theme.Subtitle.Render(fmt.Sprintf("%d answered", st.AnsweredCount))
		if s.quiz.Timed() {
			right += "   " + components.Countdown(st.RemainingSeconds)
		}
	}
	pad := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	b.WriteString(left + strings.Repeat(" ", pad) + right + "\n")

	if !reviewing {
		bar := components.NewProgressBar("", st.AnsweredCount, st.QuestionCount, width-4)
		b.WriteString("  " + bar.View() + "\n")
	}
	b.WriteString(theme.Rule.Render(strings.Repeat("─", max(width-2, 0))) + "\n\n")

	text := q.Text
	if q.Weight() > 1 {
		text += fmt.Sprintf("  (%d points)", q.Weight())
	}
	b.WriteString(lipgloss.NewStyle().Width(width-4).PaddingLeft(2).Bold(true).Foreground(theme.Text).Render(text))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("  "+instructions(q)) + "\n\n")

	widget := s.renderWidget(q, v, reviewing)
	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(widget))

	if reviewing {
		b.WriteString("\n" + s.renderReviewFooter(st, idx, q, v, width))
	} else if s.notice != "" {
		b.WriteString("\n" + theme.ErrorText.Render("  "+s.notice))
	}
	return b.String()
}

func reviewBadge(st asmt.State) string {
	if st.ReviewResult == nil {
		return ""
	}
	idx := st.CurrentQuestionIndex
	if idx < len(st.ReviewResult.Correct) && st.ReviewResult.Correct[idx] {
		return theme.BadgePassed.Render("CORRECT")
	}
	return theme.BadgeFailed.Render("INCORRECT")
}

func instructions(q quiz.Question) string {
	switch q.Type {
	case quiz.TypeMultipleChoice:
		if n := q.MaxSelections(); n > 1 {
			return fmt.Sprintf("Choose %d answers.", n)
		}
		return "Choose one answer."
	case quiz.TypeMatrix:
		return "Tick every category that applies to each row."
	case quiz.TypeRanking:
		return "Put the items in order, first at the top."
	}
	return ""
}

func (s *Screen) renderWidget(q quiz.Question, v answer.Value, reviewing bool) string {
	correct := answer.Correct(q)

	switch q.Type {
	case quiz.TypeMultipleChoice:
		sel, _ := v.(answer.MultipleChoice)
		key, _ := correct.(answer.MultipleChoice)
		choices := make([]components.Choice, len(q.Options))
		for i, label := range q.Options {
			choices[i] = components.Choice{Label: label, Checked: sel.Contains(i)}
			if reviewing {
				choices[i].Mark = markFor(sel.Contains(i), key.Contains(i))
			}
		}
		return components.ChoiceList{
			Choices:  choices,
			Cursor:   s.cursor,
			Numbered: !reviewing,
			Focused:  !reviewing,
		}.View()

	case quiz.TypeMatrix:
		m, _ := v.(answer.Matrix)
		grid := components.MatrixGrid{
			Rows:      q.MatrixRows,
			Columns:   q.MatrixColumns,
			Checked:   func(r, c int) bool { return m[answer.Cell{Row: r, Col: c}] },
			CursorRow: s.cursor,
			CursorCol: s.col,
			Focused:   !reviewing,
		}
		if reviewing {
			grid.Mark = func(r, c int) components.Mark {
				return markFor(m[answer.Cell{Row: r, Col: c}], q.CorrectColumns(r)[c])
			}
		}
		return grid.View()

	case quiz.TypeRanking:
		if reviewing && (v == nil || v.Empty()) {
			return theme.Hint.Render(answer.NoAnswer) + "\n\n" +
				theme.Subtitle.Render("Correct order: "+answer.Describe(q, correct)) + "\n"
		}
		order := answer.DisplayOrder(q, v)
		want := q.CorrectOrder()
		items := make([]components.Choice, len(order))
		for i, opt := range order {
			items[i] = components.Choice{Label: q.Options[opt]}
			if reviewing {
				items[i].Mark = components.MarkIncorrect
				if i < len(want) && want[i] == opt {
					items[i].Mark = components.MarkCorrect
				}
			}
		}
		out := components.RankedList{
			Items:   items,
			Cursor:  s.cursor,
			Grabbed: s.grabbed,
			Focused: !reviewing,
		}.View()
		if reviewing {
			out += "\n" + theme.Subtitle.Render("Correct order: "+answer.Describe(q, correct)) + "\n"
		}
		return out
	}
	return ""
}

func markFor(chosen, correct bool) components.Mark {
	switch {
	case chosen && correct:
		return components.MarkCorrect
	case chosen:
		return components.MarkIncorrect
	case correct:
		return components.MarkMissed
	}
	return components.MarkNone
}

func (s *Screen) renderReviewFooter(st asmt.State, idx int, q quiz.Question, v answer.Value, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("  Your answer: ") + theme.Body.Render(answer.Describe(q, v)) + "\n\n")

	style := lipgloss.NewStyle().Width(max(width-6, 20)).PaddingLeft(2)
	switch {
	case s.explanations[idx] != nil:
		ex := s.explanations[idx]
		b.WriteString(style.Inherit(theme.Body).Render(ex.Text))
		if ex.Tip != "" {
			b.WriteString("\n" + style.Inherit(theme.Hint).Render("Tip: "+ex.Tip))
		}
	case s.explaining[idx]:
		b.WriteString(theme.Hint.Render("  Thinking about this question..."))
	case s.explainErr[idx] != "":
		b.WriteString(theme.ErrorText.Render("  No explanation: " + s.explainErr[idx]))
	case s.canGenerate(idx):
		b.WriteString(theme.Hint.Render("  Press E for an explanation."))
	}

	if idx == st.QuestionCount-1 && s.quiz.RationaleVideoURL != "" {
		b.WriteString("\n\n" + theme.Subtitle.Render("  Walkthrough video: "+s.quiz.RationaleVideoURL))
	}
	return b.String()
}

// renderResults summarises the attempt just submitted.
func (s *Screen) renderResults(st asmt.State, width int) string {
	res, att := st.LastResult, st.LastAttempt
	if res == nil || att == nil {
		return renderMessage(width, theme.Subtitle.Render("No result"))
	}

	var b strings.Builder
	badge := theme.BadgeFailed.Render("NOT PASSED")
	if res.Passed {
		badge = theme.BadgePassed.Render("PASSED")
	}
	b.WriteString(theme.Title.Render(fmt.Sprintf("Attempt %d submitted", att.AttemptNumber)) + "  " + badge + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(fmt.Sprintf("%d%%", res.ScorePercentage)))
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("   passing score %d%%", res.PassingScore)) + "\n\n")

	rows := [][2]string{
		{"Correct", fmt.Sprintf("%d of %d questions", res.CorrectCount(), len(res.Correct))},
		{"Points", fmt.Sprintf("%d of %d", res.EarnedPoints, res.TotalPoints)},
		{"Time taken", fmt.Sprintf("%d min", att.TimeTakenMinutes)},
		{"Attempts", attemptsLabel(st, s.quiz)},
	}
	for _, r := range rows {
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%-12s", r[0])) + theme.Body.Render(r[1]) + "\n")
	}

	bar := components.NewProgressBar("Score", res.ScorePercentage, 100, min(width-10, 60))
	b.WriteString("\n" + bar.View() + "\n")

	if s.quiz.RationaleVideoURL != "" {
		b.WriteString("\n" + theme.Subtitle.Render("Walkthrough video: "+s.quiz.RationaleVideoURL) + "\n")
	}

	cardWidth := min(width-4, 72)
	return layout.Center(width, theme.Card.Width(cardWidth).Render(b.String()))
}
