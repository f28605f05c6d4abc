package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned for an operation the current mode does not allow.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrExhausted is returned by Start once every permitted attempt is used.
	ErrExhausted = errors.New("no attempts remaining")

	// ErrSubmitInFlight is returned when Submit is re-entered while a
	// submission is being persisted.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNoAttempts is returned by StartReview when there is nothing to review.
	ErrNoAttempts = errors.New("no attempts to review")
)

// StorageError wraps an attempt gateway failure. The operation may be retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// InvariantError reports data that breaks an engine invariant, such as a
// stored attempt whose answer count differs from the quiz's question count.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

func transitionError(op string, mode Mode) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, op, mode)
}
