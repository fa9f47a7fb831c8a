package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nfrund/student-portal/internal/config"
	"github.com/nfrund/student-portal/internal/logging"
)

// ConfigForTests returns a valid configuration for integration tests: a
// private in-memory sqlite database, the log email sender and quiet logging.
// Values from an optional .env.test at the project root override these.
func ConfigForTests(t *testing.T) *config.Config {
	t.Helper()

	defaults := map[string]string{
		"APP_ENV":        "test",
		"DB_DRIVER":      config.DriverSQLite,
		"DATABASE_URL":   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		"EMAIL_PROVIDER": "log",
		"REDIS_URL":      "",
		"RATE_LIMIT":     "1000",
		"LOG_LEVEL":      "error",
	}
	for key, value := range defaults {
		t.Setenv(key, value)
	}

	if root, ok := projectRoot(); ok {
		if env, err := godotenv.Read(filepath.Join(root, ".env.test")); err == nil {
			for key, value := range env {
				t.Setenv(key, value)
			}
		}
	}

	logging.Setup(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}

// projectRoot walks up from the working directory to the go.mod.
func projectRoot() (string, bool) {
	path, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, true
		}
		if path == filepath.Dir(path) {
			return "", false
		}
		path = filepath.Dir(path)
	}
}
