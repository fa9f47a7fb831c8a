package auth

import "github.com/nfrund/student-portal/internal/domain"

// LoginData is the view model for the login page.
type LoginData struct {
	CSRF     string
	Username string
	Next     string
	Errors   domain.FieldErrors
}

// RegisterData carries the submitted registration fields back to the form.
type RegisterData struct {
	CSRF     string
	Username string
	Email    string
	Errors   domain.FieldErrors
}

// ChangePasswordData is the view model for the change password form.
type ChangePasswordData struct {
	CSRF   string
	Errors domain.FieldErrors
}

// ResetRequestData is used to render the password reset request form.
type ResetRequestData struct {
	CSRF  string
	Email string
	Error string
}

// ResetDoneData holds the reset link read back from the session, if any.
type ResetDoneData struct {
	Link string
}

// SetPasswordData renders the confirm step. Invalid marks a link that
// failed to resolve; the form is not shown then.
type SetPasswordData struct {
	CSRF    string
	Invalid bool
	Errors  domain.FieldErrors
}
