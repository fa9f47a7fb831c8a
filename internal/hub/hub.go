package hub

import (
	"context"
	"log/slog"
)

// Subscriber is a single client of the Hub. The Hub closes Send when the
// subscriber is removed.
type Subscriber struct {
	// UserID identifies the signed-in user behind the connection.
	UserID string
	// Send is a buffered channel of outbound messages. The client is
	// responsible for draining it.
	Send chan []byte
}

// NewSubscriber creates a subscriber with a send buffer of size buffer.
func NewSubscriber(userID string, buffer int) *Subscriber {
	return &Subscriber{UserID: userID, Send: make(chan []byte, buffer)}
}

// Hub fans messages out to every registered subscriber. All subscriber
// bookkeeping happens on the Run goroutine.
type Hub struct {
	subscribers map[*Subscriber]bool

	broadcast  chan []byte
	register   chan *Subscriber
	unregister chan *Subscriber
	count      chan chan int
	done       chan struct{}
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		broadcast:   make(chan []byte),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		count:       make(chan chan int),
		done:        make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is cancelled, then closes every
// subscriber. It must be run in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for subscriber := range h.subscribers {
			close(subscriber.Send)
			delete(h.subscribers, subscriber)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case subscriber := <-h.register:
			h.subscribers[subscriber] = true
			slog.Info("New subscriber registered", "total_subscribers", len(h.subscribers))

		case subscriber := <-h.unregister:
			if _, ok := h.subscribers[subscriber]; ok {
				delete(h.subscribers, subscriber)
				close(subscriber.Send)
				slog.Info("Subscriber unregistered", "total_subscribers", len(h.subscribers))
			}

		case reply := <-h.count:
			reply <- len(h.subscribers)

		case message := <-h.broadcast:
			slog.Debug("Broadcasting message", "recipient_count", len(h.subscribers))
			for subscriber := range h.subscribers {
				select {
				case subscriber.Send <- message:
				default:
					// A full buffer means the client is lagging or gone.
					close(subscriber.Send)
					delete(h.subscribers, subscriber)
					slog.Warn("Unregistering slow subscriber", "user_id", subscriber.UserID, "total_subscribers", len(h.subscribers))
				}
			}
		}
	}
}

// Register adds a subscriber. It reports false if the hub has stopped.
func (h *Hub) Register(s *Subscriber) bool {
	select {
	case h.register <- s:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a subscriber and closes its Send channel. Removing an
// unknown subscriber is a no-op.
func (h *Hub) Unregister(s *Subscriber) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Broadcast queues message for every subscriber.
func (h *Hub) Broadcast(ctx context.Context, message []byte) error {
	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the number of registered subscribers, or 0 once stopped.
func (h *Hub) Count() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}
