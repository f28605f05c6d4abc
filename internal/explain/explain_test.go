package explain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/llm"
	"github.com/abhisek/proctor/internal/quiz"
)

func testQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:    "net-101",
		Title: "Networking basics",
		Questions: []quiz.Question{
			{
				ID:            "q1",
				Type:          quiz.TypeMultipleChoice,
				Text:          "Which are transport protocols?",
				Options:       []string{"TCP", "HTTP", "UDP"},
				CorrectAnswer: []int{0, 2},
				Explanation:   "TCP and UDP sit at layer 4.",
			},
			{
				ID:                  "q2",
				Type:                quiz.TypeRanking,
				Text:                "Order the layers bottom-up.",
				Options:             []string{"Network", "Physical", "Transport"},
				RankingCorrectOrder: []int{1, 0, 2},
			},
		},
	}
}

const generated = `{"explanation":"Physical comes first.","tip":"Remember: Please Do Not Throw."}`

func TestAuthoredExplanationSkipsProvider(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	ex, err := svc.Explain(context.Background(), testQuiz(), 0, answer.MultipleChoice{0}, false)
	require.NoError(t, err)
	assert.Equal(t, SourceAuthored, ex.Source)
	assert.Equal(t, "TCP and UDP sit at layer 4.", ex.Text)
	assert.Zero(t, mock.Calls())
}

func TestGeneratedExplanationIsCached(t *testing.T) {
	mock := llm.NewMockProvider().Reply(generated)
	svc := NewService(mock, DefaultConfig())
	qz := testQuiz()

	ex, err := svc.Explain(context.Background(), qz, 1, answer.Ranking{0, 1, 2}, false)
	require.NoError(t, err)
	assert.Equal(t, SourceGenerated, ex.Source)
	assert.Equal(t, "Physical comes first.", ex.Text)
	assert.Equal(t, "Remember: Please Do Not Throw.", ex.Tip)

	again, err := svc.Explain(context.Background(), qz, 1, answer.Ranking{0, 1, 2}, false)
	require.NoError(t, err)
	assert.Same(t, ex, again)
	assert.Equal(t, 1, mock.Calls())

	req := mock.Requests()[0]
	assert.Equal(t, Schema, req.Schema)
	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Student answer: Network > Physical > Transport")
	assert.Contains(t, prompt, "Correct answer: Physical > Network > Transport")
	assert.Contains(t, prompt, "answered incorrectly")
}

func TestDifferentAnswersAreGeneratedSeparately(t *testing.T) {
	mock := llm.NewMockProvider().Reply(generated).Reply(generated)
	svc := NewService(mock, DefaultConfig())
	qz := testQuiz()

	_, err := svc.Explain(context.Background(), qz, 1, answer.Ranking{0, 1, 2}, false)
	require.NoError(t, err)
	_, err = svc.Explain(context.Background(), qz, 1, answer.Ranking{1, 0, 2}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, mock.Calls())
}

func TestNoProvider(t *testing.T) {
	svc := NewService(nil, DefaultConfig())
	assert.False(t, svc.Generative())

	_, err := svc.Explain(context.Background(), testQuiz(), 1, answer.Ranking{}, false)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = svc.Explain(context.Background(), testQuiz(), 0, nil, false)
	assert.NoError(t, err)
}

func TestProviderFailureIsNotCached(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("offline")}).Reply(generated)
	svc := NewService(mock, DefaultConfig())
	qz := testQuiz()

	_, err := svc.Explain(context.Background(), qz, 1, answer.Ranking{}, false)
	require.Error(t, err)

	ex, err := svc.Explain(context.Background(), qz, 1, answer.Ranking{}, false)
	require.NoError(t, err)
	assert.Equal(t, "Physical comes first.", ex.Text)
}

func TestOutOfRange(t *testing.T) {
	svc := NewService(nil, DefaultConfig())
	_, err := svc.Explain(context.Background(), testQuiz(), 5, nil, false)
	assert.Error(t, err)
}
