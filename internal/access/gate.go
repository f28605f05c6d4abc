// Package access decides whether a student may currently start a quiz.
package access

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/proctor/internal/quiz"
)

// DateLayout formats unlock and close dates for display.
const DateLayout = "Mon Jan 2, 2006 at 3:04 PM"

// Reason explains a denied decision.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonVideosIncomplete Reason = "videos_incomplete"
	ReasonNotYetOpen       Reason = "not_yet_open"
	ReasonClosed           Reason = "closed"
)

// Decision is the outcome of evaluating the gate.
type Decision struct {
	Allowed bool
	Reason  Reason

	// MissingVideos lists unwatched prerequisites in prerequisite order.
	MissingVideos []string

	OpensAt       time.Time
	OpensAtLabel  string
	ClosesAt      time.Time
	ClosesAtLabel string
}

// Err returns a *DeniedError for a denied decision, or nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Decision: d}
}

// Message renders the decision for the student.
func (d Decision) Message() string {
	switch d.Reason {
	case ReasonVideosIncomplete:
		return fmt.Sprintf("Watch the required videos first: %s", strings.Join(d.MissingVideos, ", "))
	case ReasonNotYetOpen:
		return fmt.Sprintf("This quiz opens %s", d.OpensAtLabel)
	case ReasonClosed:
		return fmt.Sprintf("This quiz closed %s", d.ClosesAtLabel)
	}
	return ""
}

// DeniedError reports a gate denial. It is not retryable until the
// underlying condition changes.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return "access denied: " + e.Decision.Message()
}

// Evaluate applies the video gate, then the schedule gate. It never mutates
// its inputs. Labels are formatted in now's location.
func Evaluate(qz *quiz.Quiz, completed map[string]bool, now time.Time) Decision {
	if qz.RequiresVideoCompletion {
		var missing []string
		for _, id := range qz.PrerequisiteVideoIDs {
			if !completed[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return Decision{Reason: ReasonVideosIncomplete, MissingVideos: missing}
		}
	}

	if a := qz.Availability; a != nil {
		if !a.OpensAt.IsZero() && now.Before(a.OpensAt) {
			return Decision{
				Reason:       ReasonNotYetOpen,
				OpensAt:      a.OpensAt,
				OpensAtLabel: a.OpensAt.In(now.Location()).Format(DateLayout),
			}
		}
		if a.ClosesAt != nil && !now.Before(*a.ClosesAt) {
			return Decision{
				Reason:        ReasonClosed,
				ClosesAt:      *a.ClosesAt,
				ClosesAtLabel: a.ClosesAt.In(now.Location()).Format(DateLayout),
			}
		}
	}

	return Decision{Allowed: true}
}

// CompletedSet builds a lookup set from a list of completed video IDs.
func CompletedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
