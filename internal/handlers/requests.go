package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nfrund/student-portal/internal/domain"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator sharing the domain's validator and
// its custom tags.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: domain.Validator()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the submitted login form.
type LoginRequest struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// RegisterRequest is the submitted registration form. Field rules live in
// auth.Service so the CLI applies the same ones.
type RegisterRequest struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

// ChangePasswordRequest is the submitted change password form.
type ChangePasswordRequest struct {
	OldPassword  string `form:"old_password"`
	NewPassword1 string `form:"new_password1"`
	NewPassword2 string `form:"new_password2"`
}

// SetPasswordRequest is the new password pair of the reset confirm form.
type SetPasswordRequest struct {
	NewPassword1 string `form:"new_password1"`
	NewPassword2 string `form:"new_password2"`
}

// ResetRequest is the submitted password reset request form. A blank email
// is not a validation error; it matches no account like any unknown address.
type ResetRequest struct {
	Email string `form:"email"`
}

// requiredErrors turns "required" validation failures into field errors
// keyed by the form field name.
func requiredErrors(err error) domain.FieldErrors {
	fe := domain.FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add(domain.NonFieldKey, err.Error())
		return fe
	}
	for _, ve := range verrs {
		field := strings.ToLower(ve.Field())
		if ve.Tag() == "required" {
			fe.Add(field, "This field is required.")
		}
	}
	return fe
}
