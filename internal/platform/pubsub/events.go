// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	CompletedEvent EventType = "completed"
	UpdatedEvent   EventType = "updated"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
