package assessment

import (
	asmt "github.com/abhisek/proctor/internal/assessment"
	"github.com/abhisek/proctor/internal/explain"
)

// sessionLoadedMsg is sent once the student's attempts and videos are loaded.
type sessionLoadedMsg struct {
	Session *asmt.Session
	Err     error
}

// tickMsg is sent every second. SessionID ties it to the session that
// scheduled it so a stale tick chain cannot drive a newer session.
type tickMsg struct {
	SessionID string
}

// tickedMsg carries the outcome of a countdown tick, which may include an
// automatic submission.
type tickedMsg struct {
	Err error
}

// submittedMsg is sent when a manual submission finishes.
type submittedMsg struct {
	Err error
}

// refreshedMsg is sent when attempts and videos have been reloaded.
type refreshedMsg struct {
	Err error
}

// explainedMsg delivers the explanation for one question in review.
type explainedMsg struct {
	Index       int
	Explanation *explain.Explanation
	Err         error
}
