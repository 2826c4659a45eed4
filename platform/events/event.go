// Package events holds the in-process event bus the modules talk over.
// Domain event types live in internal/events; this package only defines the
// contract and the in-memory implementation.
package events

import (
	"context"
	"time"
)

// Event is anything a module can publish. EventName values are dot-separated
// and stable, e.g. "leads.lead.created"; subscribers key on them.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the publish timestamp. Domain events embed it.
type BaseEvent struct {
	At time.Time `json:"occurredAt"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.At }

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now()}
}

// Handler consumes events published under one event name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus fans published events out to their subscribers.
type Bus interface {
	// Publish delivers asynchronously; handler failures are logged, never
	// returned to the publisher.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers inline and returns the handlers' joined errors.
	PublishSync(ctx context.Context, event Event) error
	// Subscribe registers a handler under an Event.EventName value.
	Subscribe(eventName string, handler Handler)
}
