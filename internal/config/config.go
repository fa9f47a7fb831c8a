package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverSurreal  = "surrealdb"
)

// DefaultSecretKey is only acceptable outside of production.
const DefaultSecretKey = "insecure-dev-secret-key-change-me"

// Provider is the read-only view of the configuration the rest of the
// application depends on.
type Provider interface {
	GetAppEnv() string
	GetAppPort() string
	GetAppBaseURL() string
	GetSecretKey() string
	IsDebug() bool

	GetDBDriver() string
	GetDBURL() string
	GetSurrealURL() string
	GetSurrealNs() string
	GetSurrealDb() string
	GetSurrealUser() string
	GetSurrealPass() string

	GetRedisURL() string
	GetExportCacheTTL() time.Duration

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string

	GetPasswordResetTimeout() time.Duration
	GetSessionMaxAge() time.Duration
	GetRateLimit() float64

	GetLogFormat() string
	GetLogLevel() string
}

// Config holds all configuration for the application.
type Config struct {
	AppEnv     string `env:"APP_ENV" env-default:"development"`
	AppPort    string `env:"APP_PORT" env-default:"8080"`
	AppBaseURL string `env:"APP_BASE_URL"`
	SecretKey  string `env:"SECRET_KEY" env-default:"insecure-dev-secret-key-change-me"`
	Debug      bool   `env:"DEBUG" env-default:"false"`

	DBDriver    string `env:"DB_DRIVER" env-default:"sqlite"`
	DBURL       string `env:"DATABASE_URL" env-default:"db.sqlite3"`
	SurrealURL  string `env:"SURREAL_URL"`
	SurrealNs   string `env:"SURREAL_NS" env-default:"portal"`
	SurrealDb   string `env:"SURREAL_DB" env-default:"portal"`
	SurrealUser string `env:"SURREAL_USER" env-default:"root"`
	SurrealPass string `env:"SURREAL_PASS"`

	RedisURL       string        `env:"REDIS_URL"`
	ExportCacheTTL time.Duration `env:"EXPORT_CACHE_TTL" env-default:"5m"`

	EmailProvider string `env:"EMAIL_PROVIDER" env-default:"log"`
	EmailAPIKey   string `env:"EMAIL_API_KEY"`
	EmailSender   string `env:"EMAIL_SENDER" env-default:"Student Portal <no-reply@localhost>"`

	PasswordResetTimeout time.Duration `env:"PASSWORD_RESET_TIMEOUT" env-default:"72h"`
	SessionMaxAge        time.Duration `env:"SESSION_MAX_AGE" env-default:"336h"`
	RateLimit            float64       `env:"RATE_LIMIT" env-default:"10"`

	LogFormat string `env:"LOG_FORMAT" env-default:"text"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"debug"`
}

// Load reads an optional .env file, then parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.EmailProvider = strings.ToLower(strings.TrimSpace(cfg.EmailProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New loads the configuration and exits the process if it is invalid.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

// Validate checks combinations of settings that cleanenv cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
		if c.DBURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set"))
		}
	case DriverSurreal:
		if c.SurrealURL == "" {
			errs = append(errs, errors.New("SURREAL_URL must be set when DB_DRIVER=surrealdb"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	if c.EmailProvider == "resend" && c.EmailAPIKey == "" {
		errs = append(errs, errors.New("EMAIL_API_KEY must be set when EMAIL_PROVIDER=resend"))
	}
	if c.IsProduction() && (c.SecretKey == "" || c.SecretKey == DefaultSecretKey) {
		errs = append(errs, errors.New("SECRET_KEY must be set in production"))
	}
	if c.PasswordResetTimeout <= 0 {
		errs = append(errs, errors.New("PASSWORD_RESET_TIMEOUT must be positive"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT must be positive"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c *Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}
	return ":" + c.AppPort
}

func (c *Config) GetAppEnv() string     { return c.AppEnv }
func (c *Config) GetAppPort() string    { return c.AppPort }
func (c *Config) GetAppBaseURL() string { return strings.TrimRight(c.AppBaseURL, "/") }
func (c *Config) GetSecretKey() string  { return c.SecretKey }
func (c *Config) IsDebug() bool         { return c.Debug }

func (c *Config) GetDBDriver() string    { return c.DBDriver }
func (c *Config) GetDBURL() string       { return c.DBURL }
func (c *Config) GetSurrealURL() string  { return c.SurrealURL }
func (c *Config) GetSurrealNs() string   { return c.SurrealNs }
func (c *Config) GetSurrealDb() string   { return c.SurrealDb }
func (c *Config) GetSurrealUser() string { return c.SurrealUser }
func (c *Config) GetSurrealPass() string { return c.SurrealPass }

func (c *Config) GetRedisURL() string              { return c.RedisURL }
func (c *Config) GetExportCacheTTL() time.Duration { return c.ExportCacheTTL }

func (c *Config) GetEmailProvider() string { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string   { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string   { return c.EmailSender }

func (c *Config) GetPasswordResetTimeout() time.Duration { return c.PasswordResetTimeout }
func (c *Config) GetSessionMaxAge() time.Duration        { return c.SessionMaxAge }
func (c *Config) GetRateLimit() float64                  { return c.RateLimit }

func (c *Config) GetLogFormat() string { return c.LogFormat }
func (c *Config) GetLogLevel() string  { return c.LogLevel }
