package session

import "context"

// EventKind names a lifecycle transition.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventResumed   EventKind = "resumed"
	EventRotated   EventKind = "rotated"
	EventRejected  EventKind = "rejected"
	EventDestroyed EventKind = "destroyed"
)

// Rejection reasons reported with EventRejected.
const (
	ReasonIncomplete = "incomplete"
	ReasonRetired    = "retired"
	ReasonIdle       = "idle"
	ReasonChallenge  = "challenge"
	ReasonValidator  = "validator"
)

// Event describes one lifecycle transition.
type Event struct {
	Kind   EventKind
	Type   Type
	Reason string
	// Score is the challenge score, set for resumed sessions and challenge rejections.
	Score float64
}

// Observer is notified of lifecycle events. Observers run synchronously on
// the request path and must not block.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, e Event)

// Observe calls f(ctx, e).
func (f ObserverFunc) Observe(ctx context.Context, e Event) {
	f(ctx, e)
}
