package assessment

import (
	"context"
	"fmt"

	"github.com/abhisek/proctor/internal/answer"
)

// Event is a caller-initiated session transition.
type Event interface {
	isEvent()
}

// AnswerEvent applies Input to question Index.
type AnswerEvent struct {
	Index int
	Input answer.Input
}

type (
	StartEvent        struct{}
	NavigateEvent     struct{ Delta int }
	SubmitEvent       struct{}
	CloseResultsEvent struct{}
	StartReviewEvent  struct{}
	CloseReviewEvent  struct{}
	AbandonEvent      struct{}
	TickEvent         struct{}
)

func (StartEvent) isEvent()        {}
func (AnswerEvent) isEvent()       {}
func (NavigateEvent) isEvent()     {}
func (SubmitEvent) isEvent()       {}
func (CloseResultsEvent) isEvent() {}
func (StartReviewEvent) isEvent()  {}
func (CloseReviewEvent) isEvent()  {}
func (AbandonEvent) isEvent()      {}
func (TickEvent) isEvent()         {}

// Dispatch routes an event to the matching operation.
func (s *Session) Dispatch(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case StartEvent:
		return s.Start()
	case AnswerEvent:
		return s.Answer(ev.Index, ev.Input)
	case NavigateEvent:
		return s.Navigate(ev.Delta)
	case SubmitEvent:
		return s.Submit(ctx)
	case CloseResultsEvent:
		return s.CloseResults()
	case StartReviewEvent:
		return s.StartReview()
	case CloseReviewEvent:
		return s.CloseReview()
	case AbandonEvent:
		return s.Abandon()
	case TickEvent:
		return s.Tick(ctx)
	}
	return fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}
