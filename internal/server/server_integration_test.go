package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/students"
)

func TestIntegration_PublicEndpoints(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)

	res, body := tc.get("/health")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "OK", body)

	res, body = tc.get("/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Python Full Stack Development")

	res, _ = tc.get("/login/")
	assert.Equal(t, http.StatusOK, res.StatusCode, "trailing slash is stripped")

	res, _ = tc.get("/static/css/app.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = tc.postRaw("/api/students", url.Values{})
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	for _, path := range []string{"/students", "/add", "/edit/1", "/delete/1", "/change-password"} {
		res, _ = tc.get(path)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode, path)
		assert.Equal(t, "/login?next="+url.QueryEscape(path), res.Header.Get("Location"), path)
	}
}

func TestIntegration_RouterErrors(t *testing.T) {
	a := setupIntegrationTest(t)

	check := func(t *testing.T, tc *testClient) {
		t.Helper()

		res, _ := tc.postRaw("/api/students", url.Values{})
		assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
		assert.Empty(t, res.Header.Get("Location"))

		res, _ = tc.get("/no-such-page")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Empty(t, res.Header.Get("Location"))

		res, _ = tc.postRaw("/health", url.Values{})
		assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	}

	t.Run("anonymous", func(t *testing.T) {
		check(t, a.client(t))
	})

	t.Run("signed in", func(t *testing.T) {
		tc := a.client(t)
		tc.login("alice", testPassword)
		check(t, tc)
	})
}

func TestIntegration_CSRF(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)
	tc.get("/login")

	res, _ := tc.postRaw("/login", url.Values{"username": {"alice"}, "password": {testPassword}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "missing token")

	res, _ = tc.post("/login", url.Values{
		"username":               {"alice"},
		"password":               {testPassword},
		middleware.CSRFFormField: {"forged"},
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "wrong token")

	tc.login("alice", testPassword)
}

func TestIntegration_StudentLifecycle(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)
	tc.login("alice", testPassword)

	res, body := tc.post("/add", url.Values{"name": {"Ada"}, "course": {"Maths"}, "marks": {"150"}, "age": {"20"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, students.MsgMarksRange)

	res, _ = tc.post("/add", url.Values{"name": {"Ada"}, "course": {"Maths"}, "marks": {"95"}, "age": {"20"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	res, body = tc.get("/students?search=MATH")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "Ada")

	page, err := a.deps.Students.Page(context.Background(), "Ada", "")
	require.NoError(t, err)
	require.Len(t, page.Students, 1)
	id := page.Students[0].ID

	_, body = tc.get("/api/students")
	assert.JSONEq(t, `[{"name":"Ada","course":"Maths","marks":95,"age":20}]`, body)

	res, _ = tc.post(fmt.Sprintf("/edit/%d", id), url.Values{"name": {"Ada Lovelace"}, "course": {"Maths"}, "marks": {"99"}, "age": {"21"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	_, body = tc.get("/api/students")
	assert.JSONEq(t, `[{"name":"Ada Lovelace","course":"Maths","marks":99,"age":21}]`, body)

	res, _ = tc.get(fmt.Sprintf("/delete/%d", id))
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	res, _ = tc.get(fmt.Sprintf("/edit/%d", id))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	_, body = tc.get("/api/students")
	assert.JSONEq(t, `[]`, body)

	_, body = tc.get("/metrics")
	assert.Contains(t, body, "portal_http_requests_total")
	assert.Eventually(t, func() bool {
		_, body := tc.get("/metrics")
		return strings.Contains(body, `portal_student_events_total{type="deleted"} 1`)
	}, 2*time.Second, 20*time.Millisecond)
}

var resetLinkPattern = regexp.MustCompile(`id="reset-link"[^>]*>[^<]*<a href="([^"]+)"`)

func TestIntegration_PasswordReset(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)

	res, body := tc.post("/password-reset", url.Values{"email": {"nobody@example.com"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "No account found with that email address.")

	res, _ = tc.post("/password-reset", url.Values{"email": {"alice@example.com"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	require.Equal(t, "/password-reset/done", res.Header.Get("Location"))

	_, body = tc.get("/password-reset/done")
	match := resetLinkPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "reset link missing from %s", body)
	link, err := url.Parse(match[1])
	require.NoError(t, err)

	_, body = tc.get("/password-reset/done")
	assert.NotContains(t, body, "reset-link", "the link is shown once")

	res, _ = tc.get(link.Path)
	require.Equal(t, http.StatusOK, res.StatusCode)

	newPassword := "An0ther-Passphrase"
	res, _ = tc.post(link.Path, url.Values{"new_password1": {newPassword}, "new_password2": {newPassword}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(t, "/reset/done", res.Header.Get("Location"))

	_, body = tc.get(link.Path)
	assert.Contains(t, body, "Invalid reset link", "a used token no longer validates")

	tc.login("alice", newPassword)
}

func TestIntegration_LiveFeed(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)
	tc.login("alice", testPassword)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, tc.wsURL("/ws/students"), &websocket.DialOptions{HTTPClient: tc.http})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return a.deps.Hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	res, _ := tc.post("/add", url.Values{"name": {"Grace"}, "course": {"Computing"}, "marks": {"88"}, "age": {"30"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var ev students.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, students.EventCreated, ev.Type)
	assert.Equal(t, "Grace", ev.Student.Name)
}

func TestIntegration_LiveFeedRequiresLogin(t *testing.T) {
	a := setupIntegrationTest(t)
	tc := a.client(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, res, err := websocket.Dial(ctx, tc.wsURL("/ws/students"), &websocket.DialOptions{HTTPClient: tc.http})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusSeeOther, res.StatusCode)
}
