package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/middleware"
)

func TestCSRF(t *testing.T) {
	e := echo.New()
	e.Use(middleware.CSRF(false, "/api/"))
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, middleware.CSRFToken(c)) })
	e.POST("/form", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.POST("/api/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CSRFCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)

	post := func(path, token string) int {
		form := url.Values{}
		if token != "" {
			form.Set(middleware.CSRFFormField, token)
		}
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, post("/form", token))
	})
	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post("/form", ""))
	})
	t.Run("wrong token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, post("/form", "not-the-token"))
	})
	t.Run("skipped prefix", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, post("/api/ping", ""))
	})
}
