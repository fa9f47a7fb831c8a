package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/middleware"
	dto "github.com/nfrund/student-portal/internal/view/dto/auth"
	"github.com/nfrund/student-portal/web/src/templates/pages"
)

// StudentsPath is where users land after signing in.
const StudentsPath = "/students"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	auth     *auth.Service
	sessions *auth.Sessions
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// LoginGet renders the login page (GET /login).
func (h *AuthHandler) LoginGet(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Log in", pages.Login(dto.LoginData{
		CSRF: middleware.CSRFToken(c),
		Next: c.QueryParam("next"),
	}))
}

// LoginPost checks the credentials and starts a session (POST /login).
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	data := dto.LoginData{
		CSRF:     middleware.CSRFToken(c),
		Username: req.Username,
		Next:     req.Next,
	}

	if err := c.Validate(&req); err != nil {
		data.Errors = requiredErrors(err)
		return renderPage(c, http.StatusOK, "Log in", pages.Login(data))
	}

	ctx := c.Request().Context()
	user, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		middleware.FromContext(ctx).Info("Failed login attempt", "username", req.Username)
		data.Errors = domain.FieldErrors{}
		data.Errors.Add(domain.NonFieldKey, auth.MsgInvalidLogin)
		return renderPage(c, http.StatusOK, "Log in", pages.Login(data))
	}

	if err := h.sessions.Login(c, user); err != nil {
		return err
	}
	middleware.FromContext(ctx).Info("User logged in", "user_id", user.ID)
	return c.Redirect(http.StatusSeeOther, middleware.SafeNext(req.Next, StudentsPath))
}

// RegisterGet renders the registration page (GET /register).
func (h *AuthHandler) RegisterGet(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Register", pages.Register(dto.RegisterData{
		CSRF: middleware.CSRFToken(c),
	}))
}

// RegisterPost creates the account and signs it in (POST /register).
func (h *AuthHandler) RegisterPost(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user, fe, err := h.auth.Register(c.Request().Context(), auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password1: req.Password1,
		Password2: req.Password2,
	})
	if err != nil {
		return err
	}
	if fe.Any() {
		return renderPage(c, http.StatusOK, "Register", pages.Register(dto.RegisterData{
			CSRF:     middleware.CSRFToken(c),
			Username: req.Username,
			Email:    req.Email,
			Errors:   fe,
		}))
	}

	if err := h.sessions.Login(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, StudentsPath)
}

// Logout clears the session (GET /logout).
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

// ChangePasswordGet renders the change password form.
func (h *AuthHandler) ChangePasswordGet(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Change password", pages.ChangePassword(dto.ChangePasswordData{
		CSRF: middleware.CSRFToken(c),
	}))
}

// ChangePasswordPost stores the new password and keeps the current session
// signed in.
func (h *AuthHandler) ChangePasswordPost(c echo.Context) error {
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	fe, err := h.auth.ChangePassword(c.Request().Context(), user, req.OldPassword, req.NewPassword1, req.NewPassword2)
	if err != nil {
		return err
	}
	if fe.Any() {
		return renderPage(c, http.StatusOK, "Change password", pages.ChangePassword(dto.ChangePasswordData{
			CSRF:   middleware.CSRFToken(c),
			Errors: fe,
		}))
	}

	if err := h.sessions.UpdateAuthHash(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/change-password/success")
}

// ChangePasswordSuccess confirms the change.
func (h *AuthHandler) ChangePasswordSuccess(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Password changed", pages.ChangePasswordSuccess())
}
