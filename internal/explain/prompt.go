package explain

import (
	"fmt"
	"strings"

	"github.com/abhisek/proctor/internal/answer"
	"github.com/abhisek/proctor/internal/llm"
	"github.com/abhisek/proctor/internal/quiz"
)

// Schema is the structured output requested from the provider.
var Schema = &llm.Schema{
	Name:        "answer-explanation",
	Description: "Feedback on a student's answer to one quiz question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is correct and, if the student was wrong, where their answer went wrong (2-4 sentences)",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short study tip for this topic",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a course teaching assistant reviewing a student's completed quiz. Explain answers plainly and kindly. Never reveal answers to other questions. Use plain text only.`

var typeNames = map[quiz.QuestionType]string{
	quiz.TypeMultipleChoice: "multiple choice",
	quiz.TypeMatrix:         "matrix (check the correct columns in each row)",
	quiz.TypeRanking:        "ranking (put the options in the correct order)",
}

func userMessage(qz *quiz.Quiz, q quiz.Question, v answer.Value, correct bool) string {
	var b strings.Builder
	if qz.Title != "" {
		fmt.Fprintf(&b, "Quiz: %s\n", qz.Title)
	}
	fmt.Fprintf(&b, "Question type: %s\n", typeNames[q.Type])
	fmt.Fprintf(&b, "Question: %s\n", q.Text)

	switch q.Type {
	case quiz.TypeMultipleChoice, quiz.TypeRanking:
		b.WriteString("Options:\n")
		for i, o := range q.Options {
			fmt.Fprintf(&b, "%d. %s\n", i+1, o)
		}
	case quiz.TypeMatrix:
		fmt.Fprintf(&b, "Rows: %s\n", strings.Join(q.MatrixRows, " | "))
		fmt.Fprintf(&b, "Columns: %s\n", strings.Join(q.MatrixColumns, " | "))
	}

	fmt.Fprintf(&b, "\nStudent answer: %s\n", answer.Describe(q, v))
	fmt.Fprintf(&b, "Correct answer: %s\n", answer.Describe(q, answer.Correct(q)))
	if correct {
		b.WriteString("The student answered correctly. Reinforce why it is right.\n")
	} else {
		b.WriteString("The student answered incorrectly. Explain the mistake without scolding.\n")
	}
	return b.String()
}
