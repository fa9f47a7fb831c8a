package handlers

import (
	"strconv"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/hub"
	"github.com/nfrund/student-portal/internal/live"
	"github.com/nfrund/student-portal/internal/middleware"
)

// LiveHandler upgrades signed-in users to the student event feed.
type LiveHandler struct {
	hub *hub.Hub
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(h *hub.Hub) *LiveHandler {
	return &LiveHandler{hub: h}
}

// Students streams student events over a WebSocket (GET /ws/students).
// Cross-origin upgrades are refused.
func (h *LiveHandler) Students(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.ErrUnauthorized
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to upgrade live feed WebSocket", "error", err)
		// Accept has already written the error response.
		return nil
	}

	live.Serve(c.Request().Context(), conn, h.hub, strconv.FormatUint(uint64(user.ID), 10))
	return nil
}
