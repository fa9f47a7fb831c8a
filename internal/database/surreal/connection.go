package surreal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/student-portal/internal/config"
)

// ErrNotConnected is returned when the connection has not been established
// or was lost.
var ErrNotConnected = errors.New("surrealdb: not connected")

// Retryer retries an operation with exponential backoff.
type Retryer struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	multiplier float64
	jitter     bool
}

// NewRetryer creates a retryer with sensible defaults.
func NewRetryer() *Retryer {
	return &Retryer{
		maxRetries: 5,
		baseDelay:  100 * time.Millisecond,
		maxDelay:   30 * time.Second,
		multiplier: 2.0,
		jitter:     true,
	}
}

// Retry executes fn until it succeeds, the attempts run out or ctx is done.
func (r *Retryer) Retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}

		delay := r.delay(attempt)
		slog.DebugContext(ctx, "Retry attempt failed, waiting before next attempt",
			"attempt", attempt+1, "max_attempts", r.maxRetries+1,
			"delay_ms", delay.Milliseconds(), "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", r.maxRetries+1, lastErr)
}

func (r *Retryer) delay(attempt int) time.Duration {
	delay := float64(r.baseDelay) * math.Pow(r.multiplier, float64(attempt))
	if delay > float64(r.maxDelay) {
		delay = float64(r.maxDelay)
	}
	if r.jitter {
		// up to 25% extra
		delay += rand.Float64() * delay * 0.25
	}
	return time.Duration(delay)
}

// Connection manages a signed-in SurrealDB session bound to one
// namespace and database.
type Connection struct {
	cfg     config.Provider
	conn    *surrealdb.DB
	retryer *Retryer
	mu      sync.RWMutex
}

// NewConnection creates a new, not yet connected, Connection.
func NewConnection(cfg config.Provider) *Connection {
	return &Connection{cfg: cfg, retryer: NewRetryer()}
}

// Connect establishes the connection, retrying with backoff.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}
	return c.retryer.Retry(ctx, func() error { return c.reconnect(ctx) })
}

// WithConnection runs fn against the live connection. Failures that look
// like a lost connection trigger one reconnect-and-retry cycle.
func (c *Connection) WithConnection(ctx context.Context, fn func(*surrealdb.DB) error) error {
	conn := c.get()
	if conn == nil {
		return ErrNotConnected
	}

	err := fn(conn)
	if err == nil || !isConnectionError(err) {
		return err
	}

	slog.WarnContext(ctx, "SurrealDB operation failed, reconnecting",
		"error", err, "url", redactURL(c.cfg.GetSurrealURL()))

	return c.retryer.Retry(ctx, func() error {
		c.mu.Lock()
		reconnectErr := c.reconnect(ctx)
		c.mu.Unlock()
		if reconnectErr != nil {
			return fmt.Errorf("reconnection failed: %w (original error: %v)", reconnectErr, err)
		}
		return fn(c.get())
	})
}

// Close shuts down the connection.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(ctx)
	c.conn = nil
	return err
}

// Ping asks the server for its version.
func (c *Connection) Ping(ctx context.Context) error {
	return c.WithConnection(ctx, func(db *surrealdb.DB) error {
		_, err := db.Version(ctx)
		return err
	})
}

func (c *Connection) get() *surrealdb.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// reconnect must be called with c.mu held.
func (c *Connection) reconnect(ctx context.Context) error {
	if c.conn != nil {
		_ = c.conn.Close(ctx)
		c.conn = nil
	}

	dbURL := c.cfg.GetSurrealURL()
	slog.DebugContext(ctx, "Connecting to SurrealDB", "url", redactURL(dbURL))

	conn, err := surrealdb.FromEndpointURLString(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to surrealdb at %s: %w", redactURL(dbURL), err)
	}

	auth := &surrealdb.Auth{
		Username: c.cfg.GetSurrealUser(),
		Password: c.cfg.GetSurrealPass(),
	}
	if _, err = conn.SignIn(ctx, auth); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err = conn.Use(ctx, c.cfg.GetSurrealNs(), c.cfg.GetSurrealDb()); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("failed to use namespace/db: %w", err)
	}

	c.conn = conn
	slog.InfoContext(ctx, "SurrealDB connection established",
		"url", redactURL(dbURL),
		"namespace", c.cfg.GetSurrealNs(),
		"database", c.cfg.GetSurrealDb(),
	)
	return nil
}

// isConnectionError reports whether err is likely a lost connection rather
// than a query failure.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected eof")
}

// redactURL returns dbURL with any password replaced.
func redactURL(dbURL string) string {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsed.Redacted()
}
