package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuiz = `{
  "id": "intro-quiz",
  "course_id": "go-101",
  "title": "Intro",
  "time_limit_minutes": 5,
  "max_attempts": 2,
  "questions": [
    {"type": "multiple_choice", "text": "Pick two", "options": ["a", "b", "c"], "correct_answer": [0, 2], "required_answers_count": 2},
    {"type": "matrix", "text": "Match", "points": 2, "matrix_rows": ["r0", "r1"], "matrix_columns": ["c0", "c1"], "matrix_correct_answers": {"0": 1, "1": [0, 1]}},
    {"id": "order", "type": "ranking", "text": "Order", "options": ["x", "y", "z"]}
  ]
}`

func TestParseAppliesDefaults(t *testing.T) {
	qz, err := Parse([]byte(sampleQuiz), "sample.json")
	require.NoError(t, err)

	assert.Equal(t, "intro-quiz", qz.ID)
	assert.Equal(t, DefaultPassingScore, qz.EffectivePassingScore())
	require.Len(t, qz.Questions, 3)

	mc := qz.Questions[0]
	assert.Equal(t, "q1", mc.ID)
	assert.Equal(t, 1, mc.Points)
	assert.Equal(t, 2, mc.MaxSelections())

	matrix := qz.Questions[1]
	assert.Equal(t, ColumnSet{1}, matrix.MatrixCorrectAnswers[0])
	assert.Equal(t, ColumnSet{0, 1}, matrix.MatrixCorrectAnswers[1])
	assert.Equal(t, map[int]bool{0: true, 1: true}, matrix.CorrectColumns(1))

	ranking := qz.Questions[2]
	assert.Equal(t, "order", ranking.ID)
	assert.Equal(t, []int{0, 1, 2}, ranking.CorrectOrder())

	assert.Equal(t, 4, qz.TotalPoints())
	assert.Equal(t, 300, qz.TimeLimitSeconds())
	assert.True(t, qz.Timed())
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing questions", `{"id": "q", "title": "t"}`},
		{"unknown type", `{"id": "q", "title": "t", "questions": [{"type": "essay", "text": "x"}]}`},
		{"mc without correct answer", `{"id": "q", "title": "t", "questions": [{"type": "multiple_choice", "text": "x", "options": ["a"]}]}`},
		{"passing score above 100", `{"id": "q", "title": "t", "passing_score": 101, "questions": [{"type": "ranking", "text": "x", "options": ["a"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.json")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "bad.json", verr.Source)
		})
	}
}

func TestParseRejectsSemanticViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"correct index out of range", `{"id": "q", "title": "t", "questions": [{"type": "multiple_choice", "text": "x", "options": ["a"], "correct_answer": [3]}]}`},
		{"more correct answers than selectable", `{"id": "q", "title": "t", "questions": [{"type": "multiple_choice", "text": "x", "options": ["a", "b"], "correct_answer": [0, 1]}]}`},
		{"ranking not a permutation", `{"id": "q", "title": "t", "questions": [{"type": "ranking", "text": "x", "options": ["a", "b"], "ranking_correct_order": [0, 0]}]}`},
		{"matrix row out of range", `{"id": "q", "title": "t", "questions": [{"type": "matrix", "text": "x", "matrix_rows": ["r"], "matrix_columns": ["c"], "matrix_correct_answers": {"4": 0}}]}`},
		{"duplicate question ids", `{"id": "q", "title": "t", "questions": [{"id": "a", "type": "ranking", "text": "x", "options": ["a"]}, {"id": "a", "type": "ranking", "text": "y", "options": ["a"]}]}`},
		{"window closes before it opens", `{"id": "q", "title": "t", "availability": {"opens_at": "2025-02-01T00:00:00Z", "closes_at": "2025-01-01T00:00:00Z"}, "questions": [{"type": "ranking", "text": "x", "options": ["a"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.json")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(sampleQuiz), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"),
		[]byte(`{"id": "first", "course_id": "other", "title": "First", "questions": [{"type": "ranking", "text": "x", "options": ["a", "b"]}]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	quizzes, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, "first", quizzes[0].ID)
	assert.Equal(t, "intro-quiz", quizzes[1].ID)

	assert.Len(t, ForCourse(quizzes, "GO-101"), 1)
	assert.Len(t, ForCourse(quizzes, ""), 2)

	found, err := Find(quizzes, "intro-quiz")
	require.NoError(t, err)
	assert.Equal(t, "Intro", found.Title)

	_, err = Find(quizzes, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadDirRejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(sampleQuiz), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(sampleQuiz), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate quiz id")
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int{2, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1, 3}, 3))
}
