package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/domain"
)

// Session layout.
const (
	SessionName    = "portal-session"
	sessionUserID  = "user_id"
	sessionAuthKey = "auth_hash"
)

// Sessions writes the authenticated user into the cookie session.
type Sessions struct {
	secret string
	maxAge time.Duration
	secure bool
}

// NewSessions creates a Sessions helper. secure marks the cookie Secure.
func NewSessions(secret string, maxAge time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, maxAge: maxAge, secure: secure}
}

// Login stores user in a fresh session.
func (s *Sessions) Login(c echo.Context, user *domain.User) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options = s.options(int(s.maxAge.Seconds()))
	sess.Values[sessionUserID] = user.ID
	sess.Values[sessionAuthKey] = SessionHash(s.secret, user.PasswordHash)
	return sess.Save(c.Request(), c.Response())
}

// UpdateAuthHash refreshes the stored hash after the user changed their
// password, so the current session stays signed in.
func (s *Sessions) UpdateAuthHash(c echo.Context, user *domain.User) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionAuthKey] = SessionHash(s.secret, user.PasswordHash)
	return sess.Save(c.Request(), c.Response())
}

// Logout clears the session and expires its cookie.
func (s *Sessions) Logout(c echo.Context) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options = s.options(-1)
	return sess.Save(c.Request(), c.Response())
}

// Current returns the user id and auth hash stored in the session. ok is
// false for anonymous sessions.
func (s *Sessions) Current(c echo.Context) (userID uint, authHash string, ok bool) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return 0, "", false
	}
	id, ok := sess.Values[sessionUserID].(uint)
	if !ok || id == 0 {
		return 0, "", false
	}
	hash, _ := sess.Values[sessionAuthKey].(string)
	return id, hash, true
}

// Verify reports whether the stored auth hash belongs to user.
func (s *Sessions) Verify(user *domain.User, authHash string) bool {
	return authHash != "" && equalHash(authHash, SessionHash(s.secret, user.PasswordHash))
}

func (s *Sessions) options(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
