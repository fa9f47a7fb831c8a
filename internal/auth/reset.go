package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/nfrund/student-portal/internal/domain"
)

// MsgNoAccountForEmail is shown when a reset is requested for an unknown address.
const MsgNoAccountForEmail = "No account found with that email address."

// ResetService drives the password reset flow: request, resolve, confirm.
type ResetService struct {
	users  domain.UserRepository
	tokens *TokenGenerator
	mailer domain.EmailSender
	auth   *Service
}

// NewResetService creates a ResetService. mailer may be nil, in which case
// the link is only returned to the caller.
func NewResetService(users domain.UserRepository, tokens *TokenGenerator, mailer domain.EmailSender) *ResetService {
	return &ResetService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		auth:   NewService(users),
	}
}

// Request issues a reset link for the account registered with email and
// emails it. baseURL is the scheme and host the link is built on. An
// unknown or inactive address returns domain.ErrNotFound.
func (s *ResetService) Request(ctx context.Context, email, baseURL string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ErrNotFound
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", domain.ErrNotFound
	}

	token, err := s.tokens.Make(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}
	link := strings.TrimRight(baseURL, "/") + ConfirmPath(user.ID, token)

	if s.mailer != nil {
		body := fmt.Sprintf(`<p>Someone asked to reset the password for %s.</p><p><a href="%s">Choose a new password</a></p><p>If it wasn't you, ignore this email.</p>`,
			html.EscapeString(user.Username), html.EscapeString(link))
		if err := s.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
			slog.ErrorContext(ctx, "Failed to send password reset email", "user_id", user.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "Password reset requested", "user_id", user.ID)
	return link, nil
}

// ConfirmPath returns the path of the confirmation page for a token.
func ConfirmPath(id uint, token string) string {
	return "/reset/" + EncodeUID(id) + "/" + token
}

// Resolve returns the user a reset link belongs to. Every failure, from a
// malformed uid to a stale token, is domain.ErrInvalidResetLink.
func (s *ResetService) Resolve(ctx context.Context, uidb64, token string) (*domain.User, error) {
	id, err := DecodeUID(uidb64)
	if err != nil {
		return nil, domain.ErrInvalidResetLink
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidResetLink
		}
		return nil, fmt.Errorf("failed to load user for reset: %w", err)
	}

	if !s.tokens.Check(user, token) {
		return nil, domain.ErrInvalidResetLink
	}
	return user, nil
}

// Confirm sets the new password on a resolved user. The link stops working
// as soon as the password changes.
func (s *ResetService) Confirm(ctx context.Context, user *domain.User, newPassword1, newPassword2 string) (domain.FieldErrors, error) {
	fe := domain.FieldErrors{}
	if err := s.auth.setPassword(ctx, user, newPassword1, newPassword2, "new_password1", "new_password2", fe); err != nil {
		return nil, err
	}
	if fe.Any() {
		return fe, nil
	}
	slog.InfoContext(ctx, "Password reset completed", "user_id", user.ID)
	return nil, nil
}
