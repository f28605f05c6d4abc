package answer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/proctor/internal/quiz"
)

func mcQuestion(limit int) quiz.Question {
	return quiz.Question{
		Type:                 quiz.TypeMultipleChoice,
		Options:              []string{"a", "b", "c", "d"},
		CorrectAnswer:        []int{0, 2},
		RequiredAnswersCount: limit,
	}
}

func matrixQuestion() quiz.Question {
	return quiz.Question{
		Type:          quiz.TypeMatrix,
		MatrixRows:    []string{"r0", "r1"},
		MatrixColumns: []string{"c0", "c1"},
	}
}

func rankingQuestion() quiz.Question {
	return quiz.Question{Type: quiz.TypeRanking, Options: []string{"A", "B", "C"}}
}

func TestEncodeFormats(t *testing.T) {
	assert.Equal(t, "[2,0]", Encode(MultipleChoice{2, 0}))
	assert.Equal(t, "[2,0,1]", Encode(Ranking{2, 0, 1}))
	assert.Equal(t, `{"0-1":true,"1-0":true}`, Encode(Matrix{{0, 1}: true, {1, 0}: true}))
	assert.Equal(t, `{"1-1":true}`, Encode(Matrix{{0, 0}: false, {1, 1}: true}))
	assert.Equal(t, "", Encode(MultipleChoice{}))
	assert.Equal(t, "", Encode(Matrix{}))
	assert.Equal(t, "", Encode(nil))
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		MultipleChoice{0},
		MultipleChoice{2, 0, 3},
		Matrix{{0, 1}: true, {1, 0}: true, {1, 1}: true},
		Ranking{2, 0, 1},
		MultipleChoice{},
		Matrix{},
		Ranking{},
	}
	for _, v := range values {
		got := Decode(v.Type(), Encode(v))
		assert.Equal(t, v, got, "round trip of %#v", v)
	}
}

func TestMultipleChoiceSelectionOrderIsIrrelevantToSet(t *testing.T) {
	a := Decode(quiz.TypeMultipleChoice, Encode(MultipleChoice{0, 2})).(MultipleChoice)
	b := Decode(quiz.TypeMultipleChoice, Encode(MultipleChoice{2, 0})).(MultipleChoice)
	assert.ElementsMatch(t, a, b)
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name string
		t    quiz.QuestionType
		in   string
		want Value
	}{
		{"empty mc", quiz.TypeMultipleChoice, "", MultipleChoice{}},
		{"garbage mc", quiz.TypeMultipleChoice, "not json", MultipleChoice{}},
		{"scalar mc", quiz.TypeMultipleChoice, "2", MultipleChoice{2}},
		{"duplicate mc", quiz.TypeMultipleChoice, "[1,1,-1]", MultipleChoice{1}},
		{"object for ranking", quiz.TypeRanking, `{"a":1}`, Ranking{}},
		{"empty matrix", quiz.TypeMatrix, "   ", Matrix{}},
		{"array for matrix", quiz.TypeMatrix, "[1,2]", Matrix{}},
		{"bad matrix keys", quiz.TypeMatrix, `{"x-1":true,"0-1":true,"1-0":false,"2":true,"1-1":"yes"}`, Matrix{{0, 1}: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.t, tt.in))
		})
	}
	assert.Nil(t, Decode("essay", "[1]"))
}

func TestEncodeAllDecodeAllPad(t *testing.T) {
	qz := &quiz.Quiz{Questions: []quiz.Question{mcQuestion(1), matrixQuestion(), rankingQuestion()}}

	encoded := EncodeAll(qz, []Value{MultipleChoice{1}})
	assert.Equal(t, []string{"[1]", "", ""}, encoded)

	decoded := DecodeAll(qz, []string{"[1]"})
	assert.Equal(t, []Value{MultipleChoice{1}, Matrix{}, Ranking{}}, decoded)

	assert.Len(t, DecodeAll(qz, []string{"", "", "", "[9]"}), 3)
	assert.Equal(t, []Value{MultipleChoice{}, Matrix{}, Ranking{}}, Empties(qz))
}

func TestDefaultsStartRankingInDisplayOrder(t *testing.T) {
	q := rankingQuestion()
	qz := &quiz.Quiz{Questions: []quiz.Question{mcQuestion(1), matrixQuestion(), q}}

	got := Defaults(qz)
	assert.Equal(t, []Value{MultipleChoice{}, Matrix{}, Ranking{0, 1, 2}}, got)
	assert.Equal(t, DisplayOrder(q, Ranking{}), []int(got[2].(Ranking)))
	assert.Equal(t, []string{"", "", "[0,1,2]"}, EncodeAll(qz, got))
}

func TestApplySelectOptionToggleAndCap(t *testing.T) {
	q := mcQuestion(2)
	var v Value = MultipleChoice{}
	var err error

	v, err = Apply(q, v, SelectOption{Index: 0})
	require.NoError(t, err)
	v, err = Apply(q, v, SelectOption{Index: 2})
	require.NoError(t, err)
	assert.Equal(t, MultipleChoice{0, 2}, v)

	// Cap reached: a new index is silently ignored.
	v, err = Apply(q, v, SelectOption{Index: 3})
	require.NoError(t, err)
	assert.Equal(t, MultipleChoice{0, 2}, v)

	// Selecting a held index removes it.
	v, err = Apply(q, v, SelectOption{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, MultipleChoice{2}, v)

	_, err = Apply(q, v, SelectOption{Index: 9})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestApplyDoesNotMutateCurrent(t *testing.T) {
	q := mcQuestion(3)
	current := MultipleChoice{1}
	_, err := Apply(q, current, SelectOption{Index: 0})
	require.NoError(t, err)
	assert.Equal(t, MultipleChoice{1}, current)

	m := Matrix{{0, 0}: true}
	_, err = Apply(matrixQuestion(), m, ToggleCell{Row: 1, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, Matrix{{0, 0}: true}, m)
}

func TestApplyToggleCell(t *testing.T) {
	q := matrixQuestion()
	v, err := Apply(q, nil, ToggleCell{Row: 0, Col: 1})
	require.NoError(t, err)
	assert.Equal(t, Matrix{{0, 1}: true}, v)

	v, err = Apply(q, v, ToggleCell{Row: 0, Col: 1})
	require.NoError(t, err)
	assert.True(t, v.Empty())

	_, err = Apply(q, v, ToggleCell{Row: 2, Col: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyRanking(t *testing.T) {
	q := rankingQuestion()

	// First move starts from the original option order.
	v, err := Apply(q, Ranking{}, MoveOption{From: 2, To: 0})
	require.NoError(t, err)
	assert.Equal(t, Ranking{2, 0, 1}, v)

	v, err = Apply(q, v, MoveOption{From: 0, To: 2})
	require.NoError(t, err)
	assert.Equal(t, Ranking{0, 1, 2}, v)

	v, err = Apply(q, v, SetOrder{Order: []int{1, 2, 0}})
	require.NoError(t, err)
	assert.Equal(t, Ranking{1, 2, 0}, v)

	_, err = Apply(q, v, SetOrder{Order: []int{1, 1, 0}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Apply(q, v, MoveOption{From: 0, To: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyTypeMismatch(t *testing.T) {
	_, err := Apply(rankingQuestion(), nil, SelectOption{Index: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Apply(mcQuestion(1), nil, ToggleCell{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDisplayOrder(t *testing.T) {
	q := rankingQuestion()
	assert.Equal(t, []int{0, 1, 2}, DisplayOrder(q, Ranking{}))
	assert.Equal(t, []int{0, 1, 2}, DisplayOrder(q, nil))
	assert.Equal(t, []int{2, 1, 0}, DisplayOrder(q, Ranking{2, 1, 0}))
}

func TestMatrixHelpers(t *testing.T) {
	m := Matrix{{1, 1}: true, {0, 1}: true, {1, 0}: true}
	assert.Equal(t, []Cell{{0, 1}, {1, 0}, {1, 1}}, m.Cells())
	assert.Equal(t, map[int]bool{0: true, 1: true}, m.Row(1))
	assert.Empty(t, m.Row(5))
	assert.Equal(t, "3-4", Cell{Row: 3, Col: 4}.Key())
}

func TestDescribe(t *testing.T) {
	mc := mcQuestion(2)
	assert.Equal(t, "a, c", Describe(mc, MultipleChoice{2, 0}))
	assert.Equal(t, NoAnswer, Describe(mc, MultipleChoice{}))
	assert.Equal(t, NoAnswer, Describe(mc, nil))
	assert.Equal(t, NoAnswer, Describe(mc, Ranking{0}))

	mx := matrixQuestion()
	assert.Equal(t, "r0: c0, c1; r1: c1", Describe(mx, Matrix{{0, 1}: true, {0, 0}: true, {1, 1}: true}))
	assert.Equal(t, "#5", Describe(rankingQuestion(), Ranking{5}))

	rk := rankingQuestion()
	assert.Equal(t, "C > A > B", Describe(rk, Ranking{2, 0, 1}))
}

func TestCorrect(t *testing.T) {
	assert.Equal(t, MultipleChoice{0, 2}, Correct(mcQuestion(2)))
	assert.Equal(t, Ranking{0, 1, 2}, Correct(rankingQuestion()))

	mx := matrixQuestion()
	mx.MatrixCorrectAnswers = map[int]quiz.ColumnSet{0: {1}, 1: {0, 1}}
	assert.Equal(t, Matrix{{0, 1}: true, {1, 0}: true, {1, 1}: true}, Correct(mx))
}
