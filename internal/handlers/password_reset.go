package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/view"
	dto "github.com/nfrund/student-portal/internal/view/dto/auth"
	"github.com/nfrund/student-portal/web/src/templates/pages"
)

// ResetLinkSessionKey holds the issued link between the request and done pages.
const ResetLinkSessionKey = "password_reset_link"

// PasswordResetHandler serves the forgotten password flow.
type PasswordResetHandler struct {
	reset   *auth.ResetService
	baseURL string
}

// NewPasswordResetHandler creates a PasswordResetHandler. An empty baseURL
// builds links from the request's scheme and host.
func NewPasswordResetHandler(reset *auth.ResetService, baseURL string) *PasswordResetHandler {
	return &PasswordResetHandler{reset: reset, baseURL: baseURL}
}

// RequestGet renders the email form (GET /password-reset).
func (h *PasswordResetHandler) RequestGet(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Reset password", pages.ResetRequest(dto.ResetRequestData{
		CSRF: middleware.CSRFToken(c),
	}))
}

// RequestPost issues a reset link for the submitted address (POST /password-reset).
func (h *PasswordResetHandler) RequestPost(c echo.Context) error {
	var req ResetRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	data := dto.ResetRequestData{CSRF: middleware.CSRFToken(c), Email: req.Email}

	link, err := h.reset.Request(c.Request().Context(), req.Email, h.linkBase(c))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		data.Error = auth.MsgNoAccountForEmail
		return renderPage(c, http.StatusOK, "Reset password", pages.ResetRequest(data))
	}

	if err := view.SetSessionValue(c, ResetLinkSessionKey, link); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/password-reset/done")
}

// Done shows the issued link once (GET /password-reset/done).
func (h *PasswordResetHandler) Done(c echo.Context) error {
	link := view.PopSessionValue(c, ResetLinkSessionKey)
	return renderPage(c, http.StatusOK, "Password reset sent", pages.ResetDone(dto.ResetDoneData{Link: link}))
}

// Confirm validates the link and sets the new password
// (GET/POST /reset/:uidb64/:token).
func (h *PasswordResetHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.reset.Resolve(ctx, c.Param("uidb64"), c.Param("token"))
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidResetLink) {
			return err
		}
		middleware.FromContext(ctx).Info("Invalid password reset link")
		return renderPage(c, http.StatusOK, "Invalid reset link", pages.ResetConfirm(dto.SetPasswordData{Invalid: true}))
	}

	data := dto.SetPasswordData{CSRF: middleware.CSRFToken(c)}
	if c.Request().Method == http.MethodPost {
		var req SetPasswordRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		fe, err := h.reset.Confirm(ctx, user, req.NewPassword1, req.NewPassword2)
		if err != nil {
			return err
		}
		if !fe.Any() {
			return c.Redirect(http.StatusSeeOther, "/reset/done")
		}
		data.Errors = fe
	}
	return renderPage(c, http.StatusOK, "Choose a new password", pages.ResetConfirm(data))
}

// Complete is the end of the flow (GET /reset/done).
func (h *PasswordResetHandler) Complete(c echo.Context) error {
	return renderPage(c, http.StatusOK, "Password reset complete", pages.ResetComplete())
}

func (h *PasswordResetHandler) linkBase(c echo.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return c.Scheme() + "://" + c.Request().Host
}
