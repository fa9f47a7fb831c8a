package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/students"
	"github.com/nfrund/student-portal/internal/view"
	dto "github.com/nfrund/student-portal/internal/view/dto/students"
	"github.com/nfrund/student-portal/web/src/templates/pages"
)

// StudentHandler serves the student directory pages.
type StudentHandler struct {
	students *students.Service
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(svc *students.Service) *StudentHandler {
	return &StudentHandler{students: svc}
}

// List renders one page of the (optionally filtered) directory. htmx
// requests receive only the results fragment.
func (h *StudentHandler) List(c echo.Context) error {
	page, err := h.students.Page(c.Request().Context(), c.QueryParam("search"), c.QueryParam("page"))
	if err != nil {
		return err
	}
	if isHTMX(c) {
		return c.Render(http.StatusOK, "", pages.StudentResults(page))
	}
	return renderPage(c, http.StatusOK, "Students", pages.StudentList(page))
}

// AddGet renders the empty add form.
func (h *StudentHandler) AddGet(c echo.Context) error {
	return h.renderForm(c, dto.FormData{Form: students.NewForm()})
}

// AddPost creates a student from the submitted form.
func (h *StudentHandler) AddPost(c echo.Context) error {
	form, err := submittedForm(c)
	if err != nil {
		return err
	}

	student, fe, err := h.students.Create(c.Request().Context(), form)
	if err != nil {
		return err
	}
	if fe.Any() {
		return h.renderForm(c, dto.FormData{Form: form, Errors: fe})
	}

	view.SetFlashSuccess(c, "Added "+student.Name+".")
	return c.Redirect(http.StatusSeeOther, StudentsPath)
}

// EditGet renders the edit form for an existing student.
func (h *StudentHandler) EditGet(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	student, err := h.students.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}
	return h.renderForm(c, dto.FormData{ID: id, Form: students.FormFromStudent(student)})
}

// EditPost overwrites a student. Out of range or non-numeric marks are
// reported inline.
func (h *StudentHandler) EditPost(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	form, err := submittedForm(c)
	if err != nil {
		return err
	}

	student, fe, err := h.students.Update(c.Request().Context(), id, form)
	if err != nil {
		return notFound(err)
	}
	if fe.Any() {
		return h.renderForm(c, dto.FormData{ID: id, Form: form, Errors: fe})
	}

	view.SetFlashSuccess(c, "Saved "+student.Name+".")
	return c.Redirect(http.StatusSeeOther, StudentsPath)
}

// Delete removes a student and returns to the list.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.students.Delete(c.Request().Context(), id); err != nil {
		return notFound(err)
	}
	middleware.FromContext(c.Request().Context()).Info("Student deleted", "student_id", id)
	return c.Redirect(http.StatusSeeOther, StudentsPath)
}

func (h *StudentHandler) renderForm(c echo.Context, data dto.FormData) error {
	data.CSRF = middleware.CSRFToken(c)
	title := "Add student"
	if data.IsEdit() {
		title = "Edit student"
	}
	return renderPage(c, http.StatusOK, title, pages.StudentForm(data))
}

func submittedForm(c echo.Context) (students.Form, error) {
	values, err := c.FormParams()
	if err != nil {
		return students.Form{}, echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
	}
	return students.FormFromValues(values), nil
}

// notFound maps domain.ErrNotFound to a 404 and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Student not found").SetInternal(err)
	}
	return err
}
