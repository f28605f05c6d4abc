package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/quiz"
)

func intPtr(n int) *int { return &n }

func TestMultipleChoiceScenario(t *testing.T) {
	qz := &quiz.Quiz{
		PassingScore: intPtr(60),
		Questions: []quiz.Question{{
			Type:                 quiz.TypeMultipleChoice,
			Options:              []string{"a", "b", "c"},
			CorrectAnswer:        []int{0, 2},
			RequiredAnswersCount: 2,
			Points:               1,
		}},
	}

	res := Grade(qz, []answer.Value{answer.MultipleChoice{2, 0}})
	assert.Equal(t, 100, res.ScorePercentage)
	assert.True(t, res.Passed)
	assert.Equal(t, []bool{true}, res.Correct)

	res = Grade(qz, []answer.Value{answer.MultipleChoice{0, 1}})
	assert.Equal(t, 0, res.ScorePercentage)
	assert.False(t, res.Passed)
}

func TestMultipleChoiceSubsetIsIncorrect(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeMultipleChoice, Options: []string{"a", "b", "c"}, CorrectAnswer: []int{0, 2}}
	assert.False(t, IsCorrect(q, answer.MultipleChoice{0}))
	assert.False(t, IsCorrect(q, answer.MultipleChoice{0, 1, 2}))
	assert.False(t, IsCorrect(q, answer.MultipleChoice{}))
}

func TestMatrixScenario(t *testing.T) {
	q := quiz.Question{
		Type:                 quiz.TypeMatrix,
		MatrixRows:           []string{"r0", "r1"},
		MatrixColumns:        []string{"c0", "c1"},
		MatrixCorrectAnswers: map[int]quiz.ColumnSet{0: {1}, 1: {0, 1}},
	}
	qz := &quiz.Quiz{Questions: []quiz.Question{q}}

	partial := answer.Matrix{{Row: 0, Col: 1}: true, {Row: 1, Col: 0}: true}
	assert.False(t, IsCorrect(q, partial))
	assert.Equal(t, 0, Grade(qz, []answer.Value{partial}).EarnedPoints)

	full := answer.Matrix{{Row: 0, Col: 1}: true, {Row: 1, Col: 0}: true, {Row: 1, Col: 1}: true}
	assert.True(t, IsCorrect(q, full))

	extra := answer.Matrix{{Row: 0, Col: 0}: true, {Row: 0, Col: 1}: true, {Row: 1, Col: 0}: true, {Row: 1, Col: 1}: true}
	assert.False(t, IsCorrect(q, extra))
}

func TestMatrixRowWithoutKeyExpectsNothing(t *testing.T) {
	q := quiz.Question{
		Type:                 quiz.TypeMatrix,
		MatrixRows:           []string{"r0", "r1"},
		MatrixColumns:        []string{"c0"},
		MatrixCorrectAnswers: map[int]quiz.ColumnSet{0: {0}},
	}
	assert.True(t, IsCorrect(q, answer.Matrix{{Row: 0, Col: 0}: true}))
	assert.False(t, IsCorrect(q, answer.Matrix{{Row: 0, Col: 0}: true, {Row: 1, Col: 0}: true}))
}

func TestRankingScenario(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeRanking, Options: []string{"A", "B", "C"}, RankingCorrectOrder: []int{2, 0, 1}}
	assert.True(t, IsCorrect(q, answer.Ranking{2, 0, 1}))
	assert.False(t, IsCorrect(q, answer.Ranking{0, 1, 2}))
	assert.False(t, IsCorrect(q, answer.Ranking{}))

	identity := quiz.Question{Type: quiz.TypeRanking, Options: []string{"A", "B"}}
	assert.True(t, IsCorrect(identity, answer.Ranking{0, 1}))
}

func TestWrongValueTypeIsIncorrect(t *testing.T) {
	q := quiz.Question{Type: quiz.TypeRanking, Options: []string{"A", "B"}}
	assert.False(t, IsCorrect(q, answer.MultipleChoice{0, 1}))
	assert.False(t, IsCorrect(q, nil))
}

func TestGradeWeightsAndRounding(t *testing.T) {
	qz := &quiz.Quiz{
		Questions: []quiz.Question{
			{Type: quiz.TypeRanking, Options: []string{"A", "B"}, Points: 1},
			{Type: quiz.TypeRanking, Options: []string{"A", "B"}, Points: 1},
			{Type: quiz.TypeRanking, Options: []string{"A", "B"}, Points: 1},
		},
	}
	res := Grade(qz, []answer.Value{answer.Ranking{0, 1}, answer.Ranking{1, 0}})
	assert.Equal(t, 1, res.EarnedPoints)
	assert.Equal(t, 3, res.TotalPoints)
	assert.Equal(t, 33, res.ScorePercentage)
	assert.Equal(t, quiz.DefaultPassingScore, res.PassingScore)
	assert.False(t, res.Passed)
	assert.Equal(t, 1, res.CorrectCount())

	res = Grade(qz, []answer.Value{answer.Ranking{0, 1}, answer.Ranking{0, 1}})
	assert.Equal(t, 67, res.ScorePercentage)
	assert.True(t, res.Passed)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, Percentage(0, 0))
	assert.Equal(t, 50, Percentage(1, 2))
	assert.Equal(t, 100, Percentage(7, 7))
	assert.Equal(t, 17, Percentage(1, 6))
}

func TestGradeEncodedMatchesLiveGrade(t *testing.T) {
	qz := &quiz.Quiz{
		Questions: []quiz.Question{
			{Type: quiz.TypeMultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: []int{1}, Points: 2},
			{Type: quiz.TypeMatrix, MatrixRows: []string{"r"}, MatrixColumns: []string{"c0", "c1"}, MatrixCorrectAnswers: map[int]quiz.ColumnSet{0: {0}}, Points: 1},
			{Type: quiz.TypeRanking, Options: []string{"A", "B"}, RankingCorrectOrder: []int{1, 0}, Points: 1},
		},
	}
	values := []answer.Value{
		answer.MultipleChoice{1},
		answer.Matrix{{Row: 0, Col: 0}: true},
		answer.Ranking{0, 1},
	}
	live := Grade(qz, values)
	stored := GradeEncoded(qz, answer.EncodeAll(qz, values))
	assert.Equal(t, live, stored)
	assert.Equal(t, 75, stored.ScorePercentage)
}

func TestGradeEncodedToleratesCorruptRecords(t *testing.T) {
	qz := &quiz.Quiz{
		Questions: []quiz.Question{
			{Type: quiz.TypeMultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: []int{0}},
			{Type: quiz.TypeRanking, Options: []string{"A", "B"}},
		},
	}
	res := GradeEncoded(qz, []string{"{garbage"})
	assert.Equal(t, []bool{false, false}, res.Correct)
	assert.Equal(t, 0, res.ScorePercentage)
}

type alwaysRight struct{}

func (alwaysRight) IsCorrect(quiz.Question, answer.Value) bool { return true }

func TestRegisterOverridesStrategy(t *testing.T) {
	g := NewGrader()
	g.Register(quiz.TypeRanking, alwaysRight{})
	q := quiz.Question{Type: quiz.TypeRanking, Options: []string{"A", "B"}}
	assert.True(t, g.IsCorrect(q, answer.Ranking{1, 0}))
	assert.False(t, IsCorrect(q, answer.Ranking{1, 0}))
}
