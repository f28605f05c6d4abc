package quiz

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType identifies how a question is answered and graded.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeMatrix         QuestionType = "matrix"
	TypeRanking        QuestionType = "ranking"
)

// DefaultPassingScore applies when a quiz does not set passing_score.
const DefaultPassingScore = 60

// Quiz is an immutable quiz definition loaded from a quiz file.
type Quiz struct {
	ID                      string        `json:"id"`
	CourseID                string        `json:"course_id"`
	Title                   string        `json:"title"`
	Questions               []Question    `json:"questions"`
	TimeLimitMinutes        int           `json:"time_limit_minutes"`
	PassingScore            *int          `json:"passing_score,omitempty"`
	MaxAttempts             int           `json:"max_attempts"`
	PrerequisiteVideoIDs    []string      `json:"prerequisite_video_ids,omitempty"`
	RequiresVideoCompletion bool          `json:"requires_video_completion"`
	RationaleVideoURL       string        `json:"rationale_video_url,omitempty"`
	Availability            *Availability `json:"availability,omitempty"`
}

// Availability is the scheduled window in which a quiz may be started.
// A nil ClosesAt leaves the window open-ended.
type Availability struct {
	OpensAt  time.Time  `json:"opens_at"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`
}

// Question is a single quiz item. Only the payload fields matching Type are used.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Text        string       `json:"text"`
	Points      int          `json:"points,omitempty"`
	Explanation string       `json:"explanation,omitempty"`

	// multiple_choice and ranking
	Options []string `json:"options,omitempty"`

	// multiple_choice
	CorrectAnswer        []int `json:"correct_answer,omitempty"`
	RequiredAnswersCount int   `json:"required_answers_count,omitempty"`

	// matrix
	MatrixRows           []string          `json:"matrix_rows,omitempty"`
	MatrixColumns        []string          `json:"matrix_columns,omitempty"`
	MatrixCorrectAnswers map[int]ColumnSet `json:"matrix_correct_answers,omitempty"`

	// ranking
	RankingCorrectOrder []int `json:"ranking_correct_order,omitempty"`
}

// ColumnSet is the set of correct column indices for one matrix row.
// It decodes from either a JSON array or a single number.
type ColumnSet []int

func (c *ColumnSet) UnmarshalJSON(data []byte) error {
	var many []int
	if err := json.Unmarshal(data, &many); err == nil {
		*c = many
		return nil
	}
	var one int
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("matrix answer must be a column index or a list of indices: %w", err)
	}
	*c = ColumnSet{one}
	return nil
}

// Weight returns the points a correct answer earns.
func (q Question) Weight() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// MaxSelections returns how many options may be selected at once.
func (q Question) MaxSelections() int {
	if q.RequiredAnswersCount < 1 {
		return 1
	}
	return q.RequiredAnswersCount
}

// CorrectOrder returns the expected ranking, defaulting to the option order.
func (q Question) CorrectOrder() []int {
	if len(q.RankingCorrectOrder) > 0 {
		return q.RankingCorrectOrder
	}
	return IdentityOrder(len(q.Options))
}

// CorrectColumns returns the set of correct columns for a matrix row.
func (q Question) CorrectColumns(row int) map[int]bool {
	set := make(map[int]bool)
	for _, col := range q.MatrixCorrectAnswers[row] {
		set[col] = true
	}
	return set
}

// IdentityOrder returns [0, 1, ..., n-1].
func IdentityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// TotalPoints sums the weight of every question.
func (qz *Quiz) TotalPoints() int {
	total := 0
	for _, q := range qz.Questions {
		total += q.Weight()
	}
	return total
}

// EffectivePassingScore returns the passing threshold, applying the default.
func (qz *Quiz) EffectivePassingScore() int {
	if qz.PassingScore == nil {
		return DefaultPassingScore
	}
	return *qz.PassingScore
}

// Timed reports whether the quiz has a countdown.
func (qz *Quiz) Timed() bool {
	return qz.TimeLimitMinutes > 0
}

// TimeLimitSeconds returns the countdown length in seconds.
func (qz *Quiz) TimeLimitSeconds() int {
	return qz.TimeLimitMinutes * 60
}
