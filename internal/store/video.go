package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// videoRepo implements VideoRepo.
type videoRepo struct {
	db *sql.DB
}

func (r *videoRepo) MarkComplete(ctx context.Context, studentID, courseID, videoID string) error {
	query, args := builder().Insert(videoTable.Name).
		Columns("student_id", "course_id", "video_id", "completed_at").
		Values(studentID, courseID, videoID, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("student_id", "course_id", "video_id"),
			entsql.DoNothing(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save video completion: %w", err)
	}
	return nil
}

func (r *videoRepo) Completed(ctx context.Context, studentID, courseID string) ([]string, error) {
	b := builder()
	query, args := b.Select("video_id").
		From(b.Table(videoTable.Name)).
		Where(entsql.And(
			entsql.EQ("student_id", studentID),
			entsql.EQ("course_id", courseID),
		)).
		OrderBy("video_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query video completions: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan video completion: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
