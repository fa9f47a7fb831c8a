package students

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/student-portal/internal/domain"
)

// Form messages.
const (
	MsgRequired     = "This field is required."
	MsgMarksRange   = "Marks must be between 0 and 100"
	MsgMarksInvalid = "Invalid marks value"
	MsgWholeNumber  = "Enter a whole number."
)

// Form is the raw add/edit submission. Values are kept as typed so the form
// can be re-rendered unchanged next to its errors.
type Form struct {
	Name   string
	Course string
	Marks  string
	Age    string
}

// FormFromValues reads the student fields of a submitted form.
func FormFromValues(v url.Values) Form {
	return Form{
		Name:   strings.TrimSpace(v.Get("name")),
		Course: strings.TrimSpace(v.Get("course")),
		Marks:  strings.TrimSpace(v.Get("marks")),
		Age:    strings.TrimSpace(v.Get("age")),
	}
}

// FormFromStudent pre-fills a form from a stored record.
func FormFromStudent(s *domain.Student) Form {
	return Form{
		Name:   s.Name,
		Course: s.Course,
		Marks:  strconv.Itoa(s.Marks),
		Age:    strconv.Itoa(s.Age),
	}
}

// NewForm is the empty add form.
func NewForm() Form {
	return Form{Age: strconv.Itoa(domain.DefaultStudentAge)}
}

// Student parses and validates the form. It returns the record when the
// FieldErrors are empty.
func (f Form) Student() (domain.Student, domain.FieldErrors) {
	fe := domain.FieldErrors{}
	s := domain.Student{Name: f.Name, Course: f.Course}

	if f.Name == "" {
		fe.Add("name", MsgRequired)
	}
	if f.Course == "" {
		fe.Add("course", MsgRequired)
	}

	switch marks, err := strconv.Atoi(f.Marks); {
	case f.Marks == "":
		fe.Add("marks", MsgRequired)
	case err != nil:
		fe.Add("marks", MsgMarksInvalid)
	default:
		s.Marks = marks
	}

	switch age, err := strconv.Atoi(f.Age); {
	case f.Age == "":
		fe.Add("age", MsgRequired)
	case err != nil:
		fe.Add("age", MsgWholeNumber)
	default:
		s.Age = age
	}

	if err := s.Validate(); err != nil {
		addValidationErrors(err, &s, fe)
	}

	if fe.Any() {
		return domain.Student{}, fe
	}
	return s, nil
}

func addValidationErrors(err error, s *domain.Student, fe domain.FieldErrors) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add(domain.NonFieldKey, err.Error())
		return
	}

	for _, ve := range verrs {
		field := strings.ToLower(ve.Field())
		if fe.Has(field) {
			continue
		}
		switch ve.Tag() {
		case "gte", "lte":
			fe.Add(field, MsgMarksRange)
		case "max":
			fe.Add(field, "Ensure this value has at most 100 characters (it has "+
				strconv.Itoa(utf8.RuneCountInString(fieldValue(s, field)))+").")
		case "required":
			fe.Add(field, MsgRequired)
		default:
			fe.Add(field, ve.Error())
		}
	}
}

func fieldValue(s *domain.Student, field string) string {
	if field == "course" {
		return s.Course
	}
	return s.Name
}
