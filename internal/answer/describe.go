package answer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/proctor/internal/quiz"
)

// NoAnswer is what Describe renders for an empty value.
const NoAnswer = "(no answer)"

// Describe renders a value as plain text using the question's labels, for
// review screens, CLI output and LLM prompts.
func Describe(q quiz.Question, v Value) string {
	if v == nil || v.Empty() || v.Type() != q.Type {
		return NoAnswer
	}
	switch v := v.(type) {
	case MultipleChoice:
		sorted := slices.Sorted(slices.Values(v))
		return strings.Join(labels(q.Options, sorted), ", ")
	case Matrix:
		var rows []string
		for r, name := range q.MatrixRows {
			cols := make([]int, 0)
			for c := range v.Row(r) {
				cols = append(cols, c)
			}
			if len(cols) == 0 {
				continue
			}
			slices.Sort(cols)
			rows = append(rows, fmt.Sprintf("%s: %s", name, strings.Join(labels(q.MatrixColumns, cols), ", ")))
		}
		if len(rows) == 0 {
			return NoAnswer
		}
		return strings.Join(rows, "; ")
	case Ranking:
		return strings.Join(labels(q.Options, v), " > ")
	}
	return NoAnswer
}

// Correct returns the answer key of q as a Value.
func Correct(q quiz.Question) Value {
	switch q.Type {
	case quiz.TypeMultipleChoice:
		return MultipleChoice(slices.Clone(q.CorrectAnswer))
	case quiz.TypeMatrix:
		m := Matrix{}
		for r := range q.MatrixRows {
			for c := range q.CorrectColumns(r) {
				m[Cell{Row: r, Col: c}] = true
			}
		}
		return m
	case quiz.TypeRanking:
		return Ranking(slices.Clone(q.CorrectOrder()))
	}
	return nil
}

func labels(names []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, n := range idx {
		if n >= 0 && n < len(names) {
			out[i] = names[n]
		} else {
			out[i] = fmt.Sprintf("#%d", n)
		}
	}
	return out
}
