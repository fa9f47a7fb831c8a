package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CSRF settings shared by the middleware and the forms.
const (
	CSRFContextKey = "csrf"
	CSRFFormField  = "csrf_token"
	CSRFCookieName = "_csrf"
)

// CSRF protects unsafe methods with a double-submit cookie token read from
// the csrf_token form field. Paths with a prefix in skip are exempt.
func CSRF(secure bool, skip ...string) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			for _, prefix := range skip {
				if strings.HasPrefix(c.Request().URL.Path, prefix) {
					return true
				}
			}
			return false
		},
		TokenLookup:    "form:" + CSRFFormField,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}

// CSRFToken returns the token for the current request, or "" when the
// middleware is not installed.
func CSRFToken(c echo.Context) string {
	token, _ := c.Get(CSRFContextKey).(string)
	return token
}
