package grading

import (
	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/quiz"
)

// multipleChoiceStrategy requires the selected set to equal the correct set.
// There is no partial credit.
type multipleChoiceStrategy struct{}

func (multipleChoiceStrategy) IsCorrect(q quiz.Question, v answer.Value) bool {
	sel, ok := v.(answer.MultipleChoice)
	if !ok {
		return false
	}
	return sameSet(toSet(sel), toSet(q.CorrectAnswer))
}

// matrixStrategy requires every row's checked columns to equal that row's
// correct columns. Rows without an entry in the key expect nothing checked.
type matrixStrategy struct{}

func (matrixStrategy) IsCorrect(q quiz.Question, v answer.Value) bool {
	m, ok := v.(answer.Matrix)
	if !ok {
		return false
	}
	for row := range q.MatrixRows {
		if !sameSet(m.Row(row), q.CorrectColumns(row)) {
			return false
		}
	}
	return true
}

// rankingStrategy requires the exact correct sequence.
type rankingStrategy struct{}

func (rankingStrategy) IsCorrect(q quiz.Question, v answer.Value) bool {
	r, ok := v.(answer.Ranking)
	if !ok {
		return false
	}
	want := q.CorrectOrder()
	if len(r) != len(want) {
		return false
	}
	for i := range want {
		if r[i] != want[i] {
			return false
		}
	}
	return true
}

func toSet(xs []int) map[int]bool {
	set := make(map[int]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}

func sameSet(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
