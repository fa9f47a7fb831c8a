package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/student-portal/internal/live"
)

// Start runs the hub and subscribes the event consumers to the bus. They
// stop when ctx is cancelled.
func (d *Dependencies) Start(ctx context.Context) error {
	go d.Hub.Run(ctx)

	if err := live.StartFeed(ctx, d.Bus, d.Hub); err != nil {
		return err
	}
	if err := live.StartAudit(ctx, d.Bus, slog.Default()); err != nil {
		return err
	}
	if err := d.Metrics.CountEvents(ctx, d.Bus); err != nil {
		return fmt.Errorf("failed to start metrics consumer: %w", err)
	}

	slog.InfoContext(ctx, "Background consumers started")
	return nil
}
