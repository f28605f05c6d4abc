// Package answer holds the in-memory answer values for each question type
// and their persisted string encoding.
package answer

import (
	"fmt"
	"sort"

	"github.com/abhisek/proctor/internal/quiz"
)

// Value is a student's answer to a single question. It is one of
// MultipleChoice, Matrix or Ranking.
type Value interface {
	// Type returns the question type this value answers.
	Type() quiz.QuestionType
	// Empty reports whether the value counts as unanswered.
	Empty() bool
	isValue()
}

// MultipleChoice is the list of selected option indices in selection order.
type MultipleChoice []int

func (MultipleChoice) Type() quiz.QuestionType { return quiz.TypeMultipleChoice }
func (v MultipleChoice) Empty() bool          { return len(v) == 0 }
func (MultipleChoice) isValue()               {}

// Contains reports whether option idx is selected.
func (v MultipleChoice) Contains(idx int) bool {
	for _, i := range v {
		if i == idx {
			return true
		}
	}
	return false
}

// Cell addresses one matrix cell.
type Cell struct {
	Row int
	Col int
}

// Key returns the persisted key for the cell, "{row}-{col}".
func (c Cell) Key() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Col)
}

// Matrix holds the checked cells. Only true entries are kept.
type Matrix map[Cell]bool

func (Matrix) Type() quiz.QuestionType { return quiz.TypeMatrix }
func (v Matrix) Empty() bool          { return len(v) == 0 }
func (Matrix) isValue()               {}

// Row returns the set of checked columns in a row.
func (v Matrix) Row(row int) map[int]bool {
	cols := make(map[int]bool)
	for cell, checked := range v {
		if checked && cell.Row == row {
			cols[cell.Col] = true
		}
	}
	return cols
}

// Cells returns the checked cells sorted by row then column.
func (v Matrix) Cells() []Cell {
	cells := make([]Cell, 0, len(v))
	for cell, checked := range v {
		if checked {
			cells = append(cells, cell)
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// Ranking is the proposed order of option indices.
type Ranking []int

func (Ranking) Type() quiz.QuestionType { return quiz.TypeRanking }
func (v Ranking) Empty() bool          { return len(v) == 0 }
func (Ranking) isValue()               {}

// Zero returns the empty value for a question type, or nil for an unknown type.
func Zero(t quiz.QuestionType) Value {
	switch t {
	case quiz.TypeMultipleChoice:
		return MultipleChoice{}
	case quiz.TypeMatrix:
		return Matrix{}
	case quiz.TypeRanking:
		return Ranking{}
	}
	return nil
}

// DisplayOrder returns the order to show a ranking in: the student's order
// when one exists, otherwise the original option order.
func DisplayOrder(q quiz.Question, v Value) []int {
	if r, ok := v.(Ranking); ok && len(r) == len(q.Options) {
		return append([]int(nil), r...)
	}
	return quiz.IdentityOrder(len(q.Options))
}
