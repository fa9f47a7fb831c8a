package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/web/src/templates/pages"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet handles the GET request for the home page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Home", pages.HomeContent(pages.HomeData{
		Title:         "Python Full Stack Development",
		Instructor:    "Gladden",
		Authenticated: middleware.CurrentUser(c) != nil,
	}))
}

// Health reports that the process is serving requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
