// Package live streams student changes to connected browsers and to the
// audit log.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/student-portal/internal/hub"
	"github.com/nfrund/student-portal/internal/pubsub"
	"github.com/nfrund/student-portal/internal/students"
)

// StartFeed forwards every student event from the bus to the hub as JSON.
func StartFeed(ctx context.Context, sub pubsub.Subscriber, h *hub.Hub) error {
	for _, topic := range students.Topics {
		err := pubsub.Subscribe(ctx, sub, topic, func(ctx context.Context, _ pubsub.Message, ev students.Event) error {
			data, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			return h.Broadcast(ctx, data)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe feed to %s: %w", topic.Name(), err)
		}
	}
	return nil
}

// StartAudit writes one log record per student event.
func StartAudit(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	logger = logger.With("component", "audit")
	for _, topic := range students.Topics {
		err := pubsub.Subscribe(ctx, sub, topic, func(ctx context.Context, msg pubsub.Message, ev students.Event) error {
			logger.InfoContext(ctx, "Student "+ev.Type,
				"event_id", msg.ID,
				"topic", msg.Topic,
				"student_id", ev.Student.ID,
				"name", ev.Student.Name,
				"actor", ev.Actor,
				"user_id", msg.UserID,
			)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe audit to %s: %w", topic.Name(), err)
		}
	}
	return nil
}
