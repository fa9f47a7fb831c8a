package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/domain"
)

func TestSessions(t *testing.T) {
	sess := auth.NewSessions("secret", time.Hour, false)
	user := &domain.User{ID: 3, Username: "alice", PasswordHash: "hash-1"}

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("cookie-secret"))))
	e.GET("/login", func(c echo.Context) error { return sess.Login(c, user) })
	e.GET("/logout", func(c echo.Context) error { return sess.Logout(c) })
	e.GET("/me", func(c echo.Context) error {
		id, hash, ok := sess.Current(c)
		if !ok {
			return c.String(http.StatusUnauthorized, "anonymous")
		}
		if !sess.Verify(user, hash) {
			return c.String(http.StatusForbidden, "stale")
		}
		return c.JSON(http.StatusOK, id)
	})

	do := func(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", nil).Code)

	login := do("/login", nil)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.SessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	me := do("/me", cookies)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "3\n", me.Body.String())

	user.PasswordHash = "hash-2"
	assert.Equal(t, http.StatusForbidden, do("/me", cookies).Code)

	logout := do("/logout", cookies)
	expired := logout.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Equal(t, -1, expired[0].MaxAge)
}
