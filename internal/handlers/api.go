package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/students"
)

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	students *students.Service
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(svc *students.Service) *APIHandler {
	return &APIHandler{students: svc}
}

// ListStudents returns every student as a JSON array of
// {name, course, marks, age} ordered by id (GET /api/students).
func (h *APIHandler) ListStudents(c echo.Context) error {
	data, err := h.students.Export(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}
