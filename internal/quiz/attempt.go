package quiz

import "time"

// StatusCompleted is the only status a persisted attempt carries.
const StatusCompleted = "completed"

// Attempt is one completed, graded submission of a quiz by a student.
// Attempts are never mutated after creation.
type Attempt struct {
	ID               string
	StudentID        string
	QuizID           string
	CourseID         string
	AttemptNumber    int
	Answers          []string
	Score            int
	TimeTakenMinutes int
	StartedAt        time.Time
	CompletedAt      time.Time
	Status           string
}

// AttemptInput is everything needed to persist a new attempt; the store
// assigns the identity.
type AttemptInput struct {
	StudentID        string
	QuizID           string
	CourseID         string
	AttemptNumber    int
	Answers          []string
	Score            int
	TimeTakenMinutes int
	StartedAt        time.Time
	CompletedAt      time.Time
}
