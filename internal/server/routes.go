package server

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/handlers"
	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/web"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(s.deps.Config.GetRateLimit())
	guest := middleware.RedirectIfAuthenticated(handlers.StudentsPath)

	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	s.E.GET("/health", handlers.Health)
	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.deps.Registry,
	}))

	s.E.GET("/", s.homeHandler.HomeGet)

	s.E.GET("/login", s.authHandler.LoginGet, guest)
	s.E.POST("/login", s.authHandler.LoginPost, guest, rateLimiter)
	s.E.GET("/register", s.authHandler.RegisterGet, guest)
	s.E.POST("/register", s.authHandler.RegisterPost, guest, rateLimiter)
	s.E.GET("/logout", s.authHandler.Logout)

	s.E.GET("/password-reset", s.resetHandler.RequestGet)
	s.E.POST("/password-reset", s.resetHandler.RequestPost, rateLimiter)
	s.E.GET("/password-reset/done", s.resetHandler.Done)
	s.E.GET("/reset/done", s.resetHandler.Complete)
	s.E.GET("/reset/:uidb64/:token", s.resetHandler.Confirm)
	s.E.POST("/reset/:uidb64/:token", s.resetHandler.Confirm)

	// Open to anonymous clients. Other methods get 405 from the router.
	s.E.GET("/api/students", s.apiHandler.ListStudents)

	// Guarded per route: middleware on an empty-prefix group would also catch
	// unknown paths and methods.
	login := middleware.RequireLogin
	s.E.GET(handlers.StudentsPath, s.studentHandler.List, login)
	s.E.GET("/add", s.studentHandler.AddGet, login)
	s.E.POST("/add", s.studentHandler.AddPost, login)
	s.E.GET("/edit/:id", s.studentHandler.EditGet, login)
	s.E.POST("/edit/:id", s.studentHandler.EditPost, login)
	s.E.GET("/delete/:id", s.studentHandler.Delete, login)
	s.E.GET("/change-password", s.authHandler.ChangePasswordGet, login)
	s.E.POST("/change-password", s.authHandler.ChangePasswordPost, login)
	s.E.GET("/change-password/success", s.authHandler.ChangePasswordSuccess, login)
	s.E.GET("/ws/students", s.liveHandler.Students, login)
}
