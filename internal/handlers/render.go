package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
	cmp "maragu.dev/gomponents"

	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/view"
	"github.com/nfrund/student-portal/web/src/templates/layouts"
)

// renderPage wraps content in the base layout and writes it with status.
func renderPage(c echo.Context, status int, title string, content cmp.Node) error {
	var username string
	if user := middleware.CurrentUser(c); user != nil {
		username = user.Username
	}
	page := layouts.Base(title, username, view.GetFlashData(c), view.AdaptGomponentToTempl(content))
	return c.Render(status, "", page)
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// idParam parses the numeric :id path parameter. Anything else is a 404,
// matching a route that only accepts integers.
func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return uint(id), nil
}
