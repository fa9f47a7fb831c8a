package server

import (
	"errors"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/student-portal/internal/app"
	"github.com/nfrund/student-portal/internal/handlers"
	appmiddleware "github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/observability"
	"github.com/nfrund/student-portal/internal/rendering"
)

// Server holds the HTTP side of the application.
type Server struct {
	E    *echo.Echo
	deps *app.Dependencies

	homeHandler    *handlers.HomeHandler
	authHandler    *handlers.AuthHandler
	resetHandler   *handlers.PasswordResetHandler
	studentHandler *handlers.StudentHandler
	apiHandler     *handlers.APIHandler
	liveHandler    *handlers.LiveHandler
}

// New creates the echo instance, installs the middleware chain and
// registers every route.
func New(deps *app.Dependencies) (*Server, error) {
	if deps == nil {
		return nil, errors.New("server: dependencies are required")
	}
	cfg := deps.Config

	e := echo.New()
	e.HideBanner = true
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	setupErrorHandling(e)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmiddleware.Logger)
	e.Use(appmiddleware.AccessLog("/health", "/metrics"))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  observability.Namespace,
		Subsystem:  "http",
		Registerer: deps.Registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	store := sessions.NewCookieStore([]byte(cfg.GetSecretKey()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.GetSessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
	}
	e.Use(session.Middleware(store))
	e.Use(appmiddleware.CSRF(cfg.IsProduction(), "/api/", "/ws/", "/static/", "/metrics", "/health"))
	e.Use(appmiddleware.LoadUser(deps.Sessions, deps.Users))

	s := &Server{
		E:              e,
		deps:           deps,
		homeHandler:    handlers.NewHomeHandler(),
		authHandler:    handlers.NewAuthHandler(deps.Auth, deps.Sessions),
		resetHandler:   handlers.NewPasswordResetHandler(deps.Reset, cfg.GetAppBaseURL()),
		studentHandler: handlers.NewStudentHandler(deps.Students),
		apiHandler:     handlers.NewAPIHandler(deps.Students),
		liveHandler:    handlers.NewLiveHandler(deps.Hub),
	}
	s.RegisterRoutes()

	return s, nil
}

// setupErrorHandling logs errors that no handler turned into an HTTP error,
// with a stack trace, before echo writes the response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			appmiddleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
