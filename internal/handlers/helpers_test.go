package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/student-portal/internal/auth"
	"github.com/nfrund/student-portal/internal/database"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/handlers"
	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/rendering"
	"github.com/nfrund/student-portal/internal/students"
	"github.com/nfrund/student-portal/internal/testutils"
)

const (
	testSessionSecret = "a-very-secret-key-for-testing-!"
	testPassword      = "s3cure-Passphrase"
)

// testEnv is an echo instance with the real stores on sqlite and the same
// session, rendering and user loading wiring as the server, minus CSRF.
type testEnv struct {
	e        *echo.Echo
	users    *database.UserStore
	students *students.Service
	sessions *auth.Sessions
	mailer   *recordingSender
	user     *domain.User
	cookies  []*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutils.NewTestDB(t)
	users := database.NewUserStore(db)
	studentSvc := students.NewService(database.NewStudentStore(db), nil, nil)
	sess := auth.NewSessions(testSessionSecret, time.Hour, false)

	mailer := &recordingSender{}
	reset := auth.NewResetService(users, auth.NewTokenGenerator(testSessionSecret, time.Hour), mailer)

	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(middleware.LoadUser(sess, users))

	home := handlers.NewHomeHandler()
	authHandler := handlers.NewAuthHandler(auth.NewService(users), sess)
	resetHandler := handlers.NewPasswordResetHandler(reset, "http://portal.test")
	studentHandler := handlers.NewStudentHandler(studentSvc)
	api := handlers.NewAPIHandler(studentSvc)

	e.GET("/", home.HomeGet)
	e.GET("/health", handlers.Health)

	guest := middleware.RedirectIfAuthenticated(handlers.StudentsPath)
	e.GET("/login", authHandler.LoginGet, guest)
	e.POST("/login", authHandler.LoginPost, guest)
	e.GET("/register", authHandler.RegisterGet, guest)
	e.POST("/register", authHandler.RegisterPost, guest)
	e.GET("/logout", authHandler.Logout)

	e.GET("/password-reset", resetHandler.RequestGet)
	e.POST("/password-reset", resetHandler.RequestPost)
	e.GET("/password-reset/done", resetHandler.Done)
	e.GET("/reset/done", resetHandler.Complete)
	e.GET("/reset/:uidb64/:token", resetHandler.Confirm)
	e.POST("/reset/:uidb64/:token", resetHandler.Confirm)

	e.GET("/api/students", api.ListStudents)

	login := middleware.RequireLogin
	e.GET("/students", studentHandler.List, login)
	e.GET("/add", studentHandler.AddGet, login)
	e.POST("/add", studentHandler.AddPost, login)
	e.GET("/edit/:id", studentHandler.EditGet, login)
	e.POST("/edit/:id", studentHandler.EditPost, login)
	e.GET("/delete/:id", studentHandler.Delete, login)
	e.GET("/change-password", authHandler.ChangePasswordGet, login)
	e.POST("/change-password", authHandler.ChangePasswordPost, login)
	e.GET("/change-password/success", authHandler.ChangePasswordSuccess, login)

	return &testEnv{
		e:        e,
		users:    users,
		students: studentSvc,
		sessions: sess,
		mailer:   mailer,
		user:     testutils.CreateUser(t, users, "alice", "alice@example.com", testPassword),
	}
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return nil
}

// do sends a request carrying the cookies collected so far and keeps the
// ones the response sets.
func (env *testEnv) do(method, target string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range env.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	env.keep(rec.Result().Cookies())
	return rec
}

func (env *testEnv) keep(cookies []*http.Cookie) {
	for _, c := range cookies {
		if c.MaxAge < 0 {
			env.drop(c.Name)
			continue
		}
		replaced := false
		for i, existing := range env.cookies {
			if existing.Name == c.Name {
				env.cookies[i] = c
				replaced = true
			}
		}
		if !replaced {
			env.cookies = append(env.cookies, c)
		}
	}
}

func (env *testEnv) drop(name string) {
	kept := env.cookies[:0]
	for _, c := range env.cookies {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	env.cookies = kept
}

func (env *testEnv) get(target string) *httptest.ResponseRecorder {
	return env.do(http.MethodGet, target, nil)
}

func (env *testEnv) post(target string, form url.Values) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, target, form)
}

// login signs env.user in through the login handler.
func (env *testEnv) login(t *testing.T) {
	t.Helper()
	rec := env.post("/login", url.Values{"username": {"alice"}, "password": {testPassword}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
}
