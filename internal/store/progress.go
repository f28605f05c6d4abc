package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) MarkQuizComplete(ctx context.Context, studentID, courseID, quizID string) error {
	query, args := builder().Insert(progressTable.Name).
		Columns("student_id", "course_id", "quiz_id", "completed_at").
		Values(studentID, courseID, quizID, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("student_id", "course_id", "quiz_id"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress record: %w", err)
	}
	return nil
}

func (r *progressRepo) List(ctx context.Context, studentID, courseID string) ([]ProgressRecord, error) {
	b := builder()
	query, args := b.Select("student_id", "course_id", "quiz_id", "completed_at").
		From(b.Table(progressTable.Name)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("course_id", courseID),
		)).
		OrderBy("completed_at").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress records: %w", err)
	}
	defer rows.Close()

	var records []ProgressRecord
	for rows.Next() {
		var p ProgressRecord
		if err := rows.Scan(&p.StudentID, &p.CourseID, &p.QuizID, &p.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
