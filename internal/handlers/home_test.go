package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHome(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Home - Student Portal</title>")
	assert.Contains(t, body, "Python Full Stack Development")
	assert.Contains(t, body, `href="/login"`)

	env.login(t)
	assert.Contains(t, env.get("/").Body.String(), "View students")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
