package students

import (
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/students"
)

// FormData renders the add and edit forms. ID is zero on the add form.
type FormData struct {
	CSRF   string
	ID     uint
	Form   students.Form
	Errors domain.FieldErrors
}

// IsEdit reports whether the form edits an existing record.
func (d FormData) IsEdit() bool { return d.ID != 0 }
