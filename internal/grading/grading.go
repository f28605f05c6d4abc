// Package grading decides per-question correctness and aggregates a quiz score.
// Grading is pure: the same quiz and answers always produce the same Result.
package grading

import (
	"math"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/quiz"
)

// Strategy judges answers for one question type.
type Strategy interface {
	IsCorrect(q quiz.Question, v answer.Value) bool
}

// Grader routes each question to the strategy registered for its type.
// Questions of an unregistered type are never correct.
type Grader struct {
	strategies map[quiz.QuestionType]Strategy
}

// NewGrader returns a grader with the built-in strategies installed.
func NewGrader() *Grader {
	return &Grader{
		strategies: map[quiz.QuestionType]Strategy{
			quiz.TypeMultipleChoice: multipleChoiceStrategy{},
			quiz.TypeMatrix:         matrixStrategy{},
			quiz.TypeRanking:        rankingStrategy{},
		},
	}
}

// Register installs or replaces the strategy for a question type.
func (g *Grader) Register(t quiz.QuestionType, s Strategy) {
	g.strategies[t] = s
}

// Result is the outcome of grading a full set of answers.
type Result struct {
	EarnedPoints    int
	TotalPoints     int
	ScorePercentage int
	PassingScore    int
	Passed          bool
	// Correct holds per-question correctness in question order.
	Correct []bool
}

// CorrectCount returns how many questions were answered correctly.
func (r Result) CorrectCount() int {
	n := 0
	for _, ok := range r.Correct {
		if ok {
			n++
		}
	}
	return n
}

// IsCorrect judges a single answer. A nil value or a value of the wrong
// type is incorrect.
func (g *Grader) IsCorrect(q quiz.Question, v answer.Value) bool {
	if v == nil || v.Type() != q.Type {
		return false
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		return false
	}
	return s.IsCorrect(q, v)
}

// Grade scores one value per question. Missing values count as unanswered.
func (g *Grader) Grade(qz *quiz.Quiz, values []answer.Value) Result {
	res := Result{
		PassingScore: qz.EffectivePassingScore(),
		Correct:      make([]bool, len(qz.Questions)),
	}
	for i, q := range qz.Questions {
		res.TotalPoints += q.Weight()
		if i >= len(values) {
			continue
		}
		if g.IsCorrect(q, values[i]) {
			res.Correct[i] = true
			res.EarnedPoints += q.Weight()
		}
	}
	res.ScorePercentage = Percentage(res.EarnedPoints, res.TotalPoints)
	res.Passed = res.ScorePercentage >= res.PassingScore
	return res
}

// GradeEncoded re-derives a result from a stored answer list.
func (g *Grader) GradeEncoded(qz *quiz.Quiz, answers []string) Result {
	return g.Grade(qz, answer.DecodeAll(qz, answers))
}

// Percentage returns round(earned/total*100), or 0 when total is 0.
func Percentage(earned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(earned) / float64(total) * 100))
}

var defaultGrader = NewGrader()

// IsCorrect judges a single answer with the built-in strategies.
func IsCorrect(q quiz.Question, v answer.Value) bool {
	return defaultGrader.IsCorrect(q, v)
}

// Grade scores answers with the built-in strategies.
func Grade(qz *quiz.Quiz, values []answer.Value) Result {
	return defaultGrader.Grade(qz, values)
}

// GradeEncoded scores a stored answer list with the built-in strategies.
func GradeEncoded(qz *quiz.Quiz, answers []string) Result {
	return defaultGrader.GradeEncoded(qz, answers)
}
