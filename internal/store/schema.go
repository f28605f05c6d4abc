package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions applied by ent's migrator on Open. Event tables share
// the sequence/timestamp prefix: sequence comes from the global counter so
// events of different types can be ordered against each other.

var (
	attemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString, Default: ""},
		{Name: "attempt_number", Type: field.TypeInt},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "score", Type: field.TypeInt},
		{Name: "time_taken_minutes", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "status", Type: field.TypeString, Default: "completed"},
	}
	// Attempt numbers are not unique: two concurrent sessions may both
	// compute the same next number.
	attemptsTable = &schema.Table{
		Name:       "attempts",
		Columns:    attemptsColumns,
		PrimaryKey: []*schema.Column{attemptsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "attempt_student_id_quiz_id", Columns: []*schema.Column{attemptsColumns[1], attemptsColumns[2]}},
			{Name: "attempt_completed_at", Columns: []*schema.Column{attemptsColumns[9]}},
		},
	}

	progressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString, Default: ""},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
	}
	progressTable = &schema.Table{
		Name:       "progress_records",
		Columns:    progressColumns,
		PrimaryKey: []*schema.Column{progressColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progress_student_course_quiz", Unique: true, Columns: []*schema.Column{progressColumns[1], progressColumns[2], progressColumns[3]}},
		},
	}

	videoColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "student_id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString, Default: ""},
		{Name: "video_id", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime},
	}
	videoTable = &schema.Table{
		Name:       "video_completions",
		Columns:    videoColumns,
		PrimaryKey: []*schema.Column{videoColumns[0]},
		Indexes: []*schema.Index{
			{Name: "video_student_course_video", Unique: true, Columns: []*schema.Column{videoColumns[1], videoColumns[2], videoColumns[3]}},
		},
	}

	sessionEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString},
		{Name: "student_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "course_id", Type: field.TypeString, Default: ""},
		{Name: "action", Type: field.TypeString},
		{Name: "attempt_number", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "detail", Type: field.TypeString, Default: ""},
	}
	sessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    sessionEventColumns,
		PrimaryKey: []*schema.Column{sessionEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_timestamp", Columns: []*schema.Column{sessionEventColumns[2]}},
			{Name: "sessionevent_student_id_quiz_id", Columns: []*schema.Column{sessionEventColumns[4], sessionEventColumns[5]}},
		},
	}

	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{llmEventColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
		},
	}

	tables = []*schema.Table{
		attemptsTable,
		progressTable,
		videoTable,
		sessionEventsTable,
		llmEventsTable,
	}
)

// columnNames lists a table's column names in declaration order.
func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
