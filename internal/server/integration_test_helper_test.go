package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/student-portal/internal/app"
	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/middleware"
	"github.com/nfrund/student-portal/internal/server"
	"github.com/nfrund/student-portal/internal/testutils"
)

const testPassword = "s3cure-Passphrase"

// testApp is a fully wired server behind httptest with one registered user.
type testApp struct {
	deps *app.Dependencies
	srv  *httptest.Server
	user *domain.User
}

func setupIntegrationTest(t *testing.T) *testApp {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	deps, err := app.New(ctx, testutils.ConfigForTests(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	require.NoError(t, deps.Migrate(ctx))
	require.NoError(t, deps.Start(ctx))

	s, err := server.New(deps)
	require.NoError(t, err)

	srv := httptest.NewServer(s.E)
	t.Cleanup(srv.Close)

	return &testApp{
		deps: deps,
		srv:  srv,
		user: testutils.CreateUser(t, deps.Users, "alice", "alice@example.com", testPassword),
	}
}

// testClient is a browser stand-in: it keeps cookies, does not follow
// redirects and fills in the CSRF token on forms.
type testClient struct {
	t    *testing.T
	base *url.URL
	http *http.Client
}

func (a *testApp) client(t *testing.T) *testClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	base, err := url.Parse(a.srv.URL)
	require.NoError(t, err)

	return &testClient{
		t:    t,
		base: base,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (tc *testClient) url(path string) string {
	return tc.base.String() + path
}

func (tc *testClient) wsURL(path string) string {
	return "ws" + strings.TrimPrefix(tc.url(path), "http")
}

func (tc *testClient) cookie(name string) string {
	for _, c := range tc.http.Jar.Cookies(tc.base) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (tc *testClient) do(req *http.Request) (*http.Response, string) {
	tc.t.Helper()

	res, err := tc.http.Do(req)
	require.NoError(tc.t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(tc.t, err)
	return res, string(body)
}

func (tc *testClient) get(path string) (*http.Response, string) {
	tc.t.Helper()

	req, err := http.NewRequest(http.MethodGet, tc.url(path), nil)
	require.NoError(tc.t, err)
	return tc.do(req)
}

// post submits form, adding the CSRF token from the cookie the server set on
// an earlier request.
func (tc *testClient) post(path string, form url.Values) (*http.Response, string) {
	tc.t.Helper()

	if tc.cookie(middleware.CSRFCookieName) == "" {
		tc.get("/")
	}
	if _, ok := form[middleware.CSRFFormField]; !ok {
		form.Set(middleware.CSRFFormField, tc.cookie(middleware.CSRFCookieName))
	}
	return tc.postRaw(path, form)
}

func (tc *testClient) postRaw(path string, form url.Values) (*http.Response, string) {
	tc.t.Helper()

	req, err := http.NewRequest(http.MethodPost, tc.url(path), strings.NewReader(form.Encode()))
	require.NoError(tc.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func (tc *testClient) login(username, password string) {
	tc.t.Helper()

	res, _ := tc.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(tc.t, http.StatusSeeOther, res.StatusCode)
	assert.Equal(tc.t, "/students", res.Header.Get("Location"))
}
