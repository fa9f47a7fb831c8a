package live

import (
	"context"
	"log/slog"

	"github.com/coder/websocket"

	"github.com/nfrund/student-portal/internal/hub"
)

// sendBuffer is how many events a client may lag behind before the hub
// drops it.
const sendBuffer = 64

// Client is a middleman between one WebSocket connection and the hub.
type Client struct {
	conn       *websocket.Conn
	hub        *hub.Hub
	subscriber *hub.Subscriber
}

// Serve registers conn with the hub and pumps events to it until either
// side goes away. It blocks.
func Serve(ctx context.Context, conn *websocket.Conn, h *hub.Hub, userID string) {
	c := &Client{conn: conn, hub: h, subscriber: hub.NewSubscriber(userID, sendBuffer)}
	if !h.Register(c.subscriber) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	// The feed is one-way; CloseRead handles control frames and cancels
	// ctx when the client disconnects.
	ctx = conn.CloseRead(ctx)
	c.writePump(ctx)
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c.subscriber)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Debug("Live feed client disconnected", "user_id", c.subscriber.UserID)
			return
		case message, ok := <-c.subscriber.Send:
			if !ok {
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, message); err != nil {
				slog.Warn("Live feed write failed", "user_id", c.subscriber.UserID, "error", err)
				return
			}
		}
	}
}
