package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/domain"
)

// UserContextKey is the echo context key holding the signed-in *domain.User.
const UserContextKey = "user"

// LoginPath is where anonymous users are sent.
const LoginPath = "/login"

// LoadUser resolves the session to a user on every request. Sessions whose
// user disappeared, was deactivated or changed password are cleared and the
// request continues anonymously.
func LoadUser(sessions *auth.Sessions, users domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, hash, ok := sessions.Current(c)
			if !ok {
				return next(c)
			}

			ctx := c.Request().Context()
			user, err := users.FindByID(ctx, id)
			switch {
			case err == nil && user.IsActive && sessions.Verify(user, hash):
				c.Set(UserContextKey, user)
				c.SetRequest(c.Request().WithContext(domain.ContextWithUser(ctx, user)))
				return next(c)
			case err != nil && !errors.Is(err, domain.ErrNotFound):
				return err
			}

			FromContext(ctx).Info("Discarding stale session", "user_id", id)
			if err := sessions.Logout(c); err != nil {
				FromContext(ctx).Error("Failed to clear stale session", "error", err)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(UserContextKey).(*domain.User)
	return user
}

// RequireLogin redirects anonymous users to the login page, remembering the
// requested path in the next parameter.
func RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentUser(c) == nil {
			target := LoginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusSeeOther, target)
		}
		return next(c)
	}
}

// RedirectIfAuthenticated sends signed-in users to path.
func RedirectIfAuthenticated(path string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) != nil {
				return c.Redirect(http.StatusSeeOther, path)
			}
			return next(c)
		}
	}
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
