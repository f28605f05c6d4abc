package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/proctor/internal/quiz"
)

var attemptColumnNames = columnNames(attemptsColumns)

// attemptRepo implements AttemptRepo with the ent SQL builder.
type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Create(ctx context.Context, in quiz.AttemptInput) (quiz.Attempt, error) {
	answers := in.Answers
	if answers == nil {
		answers = []string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return quiz.Attempt{}, fmt.Errorf("encode answers: %w", err)
	}

	a := quiz.Attempt{
		ID:               uuid.New().String(),
		StudentID:        in.StudentID,
		QuizID:           in.QuizID,
		CourseID:         in.CourseID,
		AttemptNumber:    in.AttemptNumber,
		Answers:          append([]string(nil), answers...),
		Score:            in.Score,
		TimeTakenMinutes: in.TimeTakenMinutes,
		StartedAt:        in.StartedAt.UTC(),
		CompletedAt:      in.CompletedAt.UTC(),
		Status:           quiz.StatusCompleted,
	}

	query, args := builder().Insert(attemptsTable.Name).
		Columns(attemptColumnNames...).
		Values(a.ID, a.StudentID, a.QuizID, a.CourseID, a.AttemptNumber, string(raw),
			a.Score, a.TimeTakenMinutes, a.StartedAt, a.CompletedAt, a.Status).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return quiz.Attempt{}, fmt.Errorf("save attempt: %w", err)
	}
	return a, nil
}

func (r *attemptRepo) ListForQuiz(ctx context.Context, studentID, quizID string) ([]quiz.Attempt, error) {
	sel := selectAttempts().
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("quiz_id", quizID),
		)).
		OrderBy(entsql.Desc("attempt_number"), entsql.Desc("completed_at"))
	return r.query(ctx, sel)
}

func (r *attemptRepo) ListForStudent(ctx context.Context, studentID string, limit int) ([]quiz.Attempt, error) {
	sel := selectAttempts().
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("completed_at"))
	if limit > 0 {
		sel.Limit(limit)
	}
	return r.query(ctx, sel)
}

func (r *attemptRepo) Get(ctx context.Context, id string) (quiz.Attempt, error) {
	attempts, err := r.query(ctx, selectAttempts().Where(entsql.EQ("id", id)).Limit(1))
	if err != nil {
		return quiz.Attempt{}, err
	}
	if len(attempts) == 0 {
		return quiz.Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
	}
	return attempts[0], nil
}

func selectAttempts() *entsql.Selector {
	b := builder()
	return b.Select(attemptColumnNames...).From(b.Table(attemptsTable.Name))
}

func (r *attemptRepo) query(ctx context.Context, sel *entsql.Selector) ([]quiz.Attempt, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	attempts := []quiz.Attempt{}
	for rows.Next() {
		var (
			a   quiz.Attempt
			raw string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.QuizID, &a.CourseID, &a.AttemptNumber, &raw,
			&a.Score, &a.TimeTakenMinutes, &a.StartedAt, &a.CompletedAt, &a.Status); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		// A corrupt answer column still yields a reviewable attempt.
		if err := json.Unmarshal([]byte(raw), &a.Answers); err != nil {
			a.Answers = nil
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
