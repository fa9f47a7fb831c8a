package pages_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"

	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/students"
	"github.com/nfrund/student-portal/internal/view/dto/auth"
	dto "github.com/nfrund/student-portal/internal/view/dto/students"
	"github.com/nfrund/student-portal/web/src/templates/pages"
)

func render(t *testing.T, n cmp.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestStudentResults(t *testing.T) {
	page := &students.Page{
		Students: []domain.Student{{ID: 7, Name: "Ada", Course: "Maths", Marks: 91, Age: 19}},
		Search:   "a b",
		Number:   2,
		NumPages: 3,
		Total:    21,
	}

	out := render(t, pages.StudentResults(page))
	assert.Contains(t, out, `id="student-results"`)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, `href="/edit/7"`)
	assert.Contains(t, out, `href="/delete/7"`)
	assert.Contains(t, out, "Page 2 of 3 (11-20 of 21)")
	assert.Contains(t, out, `/students?page=3&amp;search=a+b`)
	assert.Contains(t, out, `hx-target="#student-results"`)
}

func TestStudentResults_Empty(t *testing.T) {
	out := render(t, pages.StudentResults(&students.Page{Number: 1, NumPages: 1}))
	assert.Contains(t, out, "No students found.")
	assert.NotContains(t, out, "pagination")
}

func TestStudentForm(t *testing.T) {
	t.Run("add form uses the default age", func(t *testing.T) {
		out := render(t, pages.StudentForm(dto.FormData{CSRF: "tok", Form: students.NewForm()}))
		assert.Contains(t, out, `action="/add"`)
		assert.Contains(t, out, `name="age" id="id_age" value="18"`)
		assert.Contains(t, out, `value="tok"`)
	})

	t.Run("edit form shows inline errors", func(t *testing.T) {
		fe := domain.FieldErrors{}
		fe.Add("marks", students.MsgMarksRange)
		out := render(t, pages.StudentForm(dto.FormData{ID: 3, Form: students.Form{Marks: "101"}, Errors: fe}))
		assert.Contains(t, out, `action="/edit/3"`)
		assert.Contains(t, out, students.MsgMarksRange)
	})
}

func TestResetPages(t *testing.T) {
	out := render(t, pages.ResetConfirm(auth.SetPasswordData{Invalid: true}))
	assert.Contains(t, out, "Invalid reset link")
	assert.NotContains(t, out, "new_password1")

	out = render(t, pages.ResetConfirm(auth.SetPasswordData{CSRF: "tok"}))
	assert.Contains(t, out, `name="new_password1"`)
	assert.Contains(t, out, `name="new_password2"`)

	out = render(t, pages.ResetDone(auth.ResetDoneData{Link: "http://localhost/reset/MQ/x"}))
	assert.Contains(t, out, `href="http://localhost/reset/MQ/x"`)

	out = render(t, pages.ResetDone(auth.ResetDoneData{}))
	assert.NotContains(t, out, "reset-link")
}

func TestLoginCarriesNext(t *testing.T) {
	out := render(t, pages.Login(auth.LoginData{Next: "/students?page=2"}))
	assert.Contains(t, out, `name="next" value="/students?page=2"`)
}
