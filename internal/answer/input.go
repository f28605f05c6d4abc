package answer

import (
	"errors"
	"fmt"

	"github.com/abhisek/proctor/internal/quiz"
)

// ErrInvalidInput is returned by Apply for input that does not fit the question.
var ErrInvalidInput = errors.New("invalid answer input")

// Input is one editing action on an answer.
type Input interface {
	isInput()
}

// SelectOption toggles a multiple-choice option.
type SelectOption struct{ Index int }

// ToggleCell toggles a matrix cell.
type ToggleCell struct{ Row, Col int }

// SetOrder replaces a ranking with a full order.
type SetOrder struct{ Order []int }

// MoveOption moves the option at position From to position To in a ranking.
type MoveOption struct{ From, To int }

func (SelectOption) isInput() {}
func (ToggleCell) isInput()   {}
func (SetOrder) isInput()     {}
func (MoveOption) isInput()   {}

// Apply returns the answer that results from applying in to current. current
// is never modified. A nil or mismatched current is treated as unanswered.
//
// Selecting a new multiple-choice option while the question's selection cap
// is already reached leaves the answer unchanged without error.
func Apply(q quiz.Question, current Value, in Input) (Value, error) {
	switch in := in.(type) {
	case SelectOption:
		if q.Type != quiz.TypeMultipleChoice {
			return current, mismatch(q, in)
		}
		if in.Index < 0 || in.Index >= len(q.Options) {
			return current, fmt.Errorf("%w: option %d out of range", ErrInvalidInput, in.Index)
		}
		sel, _ := current.(MultipleChoice)
		return toggleOption(sel, in.Index, q.MaxSelections()), nil

	case ToggleCell:
		if q.Type != quiz.TypeMatrix {
			return current, mismatch(q, in)
		}
		if in.Row < 0 || in.Row >= len(q.MatrixRows) || in.Col < 0 || in.Col >= len(q.MatrixColumns) {
			return current, fmt.Errorf("%w: cell %d-%d out of range", ErrInvalidInput, in.Row, in.Col)
		}
		m, _ := current.(Matrix)
		next := make(Matrix, len(m)+1)
		for cell, checked := range m {
			if checked {
				next[cell] = true
			}
		}
		cell := Cell{Row: in.Row, Col: in.Col}
		if next[cell] {
			delete(next, cell)
		} else {
			next[cell] = true
		}
		return next, nil

	case SetOrder:
		if q.Type != quiz.TypeRanking {
			return current, mismatch(q, in)
		}
		if !quiz.IsPermutation(in.Order, len(q.Options)) {
			return current, fmt.Errorf("%w: order must be a permutation of %d options", ErrInvalidInput, len(q.Options))
		}
		return Ranking(append([]int(nil), in.Order...)), nil

	case MoveOption:
		if q.Type != quiz.TypeRanking {
			return current, mismatch(q, in)
		}
		n := len(q.Options)
		if in.From < 0 || in.From >= n || in.To < 0 || in.To >= n {
			return current, fmt.Errorf("%w: move %d->%d out of range", ErrInvalidInput, in.From, in.To)
		}
		order := DisplayOrder(q, current)
		moved := order[in.From]
		order = append(order[:in.From], order[in.From+1:]...)
		order = append(order[:in.To], append([]int{moved}, order[in.To:]...)...)
		return Ranking(order), nil
	}
	return current, fmt.Errorf("%w: unsupported input %T", ErrInvalidInput, in)
}

func toggleOption(sel MultipleChoice, idx, limit int) MultipleChoice {
	next := make(MultipleChoice, 0, len(sel)+1)
	removed := false
	for _, i := range sel {
		if i == idx {
			removed = true
			continue
		}
		next = append(next, i)
	}
	if removed {
		return next
	}
	if len(sel) >= limit {
		return append(MultipleChoice{}, sel...)
	}
	return append(next, idx)
}

func mismatch(q quiz.Question, in Input) error {
	return fmt.Errorf("%w: %T does not apply to %s question", ErrInvalidInput, in, q.Type)
}
