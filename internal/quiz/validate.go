package quiz

import (
	"errors"
	"fmt"
)

// Validate runs the semantic checks a JSON Schema cannot express: index
// ranges, permutations, and unique question IDs. All problems are joined
// into one error.
func Validate(qz *Quiz) error {
	var errs []error

	if qz.PassingScore != nil && (*qz.PassingScore < 0 || *qz.PassingScore > 100) {
		errs = append(errs, fmt.Errorf("passing_score %d out of range 0-100", *qz.PassingScore))
	}
	if qz.TimeLimitMinutes < 0 {
		errs = append(errs, fmt.Errorf("time_limit_minutes must not be negative"))
	}
	if qz.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max_attempts must not be negative"))
	}
	if a := qz.Availability; a != nil && a.ClosesAt != nil && !a.ClosesAt.After(a.OpensAt) {
		errs = append(errs, fmt.Errorf("availability closes_at must be after opens_at"))
	}
	if len(qz.Questions) == 0 {
		errs = append(errs, fmt.Errorf("quiz has no questions"))
	}

	ids := make(map[string]bool, len(qz.Questions))
	for i, q := range qz.Questions {
		if ids[q.ID] {
			errs = append(errs, fmt.Errorf("question %d: duplicate id %q", i+1, q.ID))
		}
		ids[q.ID] = true
		if err := validateQuestion(q); err != nil {
			errs = append(errs, fmt.Errorf("question %d (%s): %w", i+1, q.ID, err))
		}
	}
	return errors.Join(errs...)
}

func validateQuestion(q Question) error {
	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("multiple_choice needs options")
		}
		if len(q.CorrectAnswer) == 0 {
			return fmt.Errorf("multiple_choice needs at least one correct answer")
		}
		if err := indicesInRange(q.CorrectAnswer, len(q.Options), "correct_answer"); err != nil {
			return err
		}
		if q.MaxSelections() > len(q.Options) {
			return fmt.Errorf("required_answers_count %d exceeds %d options", q.MaxSelections(), len(q.Options))
		}
		if len(q.CorrectAnswer) > q.MaxSelections() {
			return fmt.Errorf("%d correct answers but only %d may be selected", len(q.CorrectAnswer), q.MaxSelections())
		}
	case TypeMatrix:
		if len(q.MatrixRows) == 0 || len(q.MatrixColumns) == 0 {
			return fmt.Errorf("matrix needs rows and columns")
		}
		for row, cols := range q.MatrixCorrectAnswers {
			if row < 0 || row >= len(q.MatrixRows) {
				return fmt.Errorf("matrix_correct_answers row %d out of range", row)
			}
			if err := indicesInRange(cols, len(q.MatrixColumns), fmt.Sprintf("matrix row %d", row)); err != nil {
				return err
			}
		}
	case TypeRanking:
		if len(q.Options) == 0 {
			return fmt.Errorf("ranking needs options")
		}
		if !IsPermutation(q.CorrectOrder(), len(q.Options)) {
			return fmt.Errorf("ranking_correct_order must be a permutation of %d options", len(q.Options))
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

func indicesInRange(indices []int, n int, field string) error {
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%s index %d out of range", field, idx)
		}
		if seen[idx] {
			return fmt.Errorf("%s repeats index %d", field, idx)
		}
		seen[idx] = true
	}
	return nil
}

// IsPermutation reports whether order contains each of 0..n-1 exactly once.
func IsPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
