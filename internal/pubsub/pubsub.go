package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// ID is unique per published message. Publish assigns one when empty.
	ID string
	// Topic identifies the channel the message belongs to (e.g., "students.created").
	Topic string
	// UserID identifies the user who caused the message, if any.
	UserID string
	// Payload carries the JSON encoded event.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe starts listening to the given topic in the background and
	// returns once the subscription is active. It ends when ctx is cancelled
	// or the subscriber is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
