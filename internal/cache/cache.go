package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExportKey holds the encoded JSON export of the student table.
const ExportKey = "portal:students:export"

// ExportCache stores the rendered JSON export between mutations.
type ExportCache interface {
	// Get returns the cached export and whether it was present.
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, data []byte) error
	Invalidate(ctx context.Context) error
	Close() error
}

// Connect configures a Redis client from url and checks it responds.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}
	return client, nil
}

// RedisExportCache is the Redis backed ExportCache.
type RedisExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisExportCache wraps client. A zero ttl keeps entries until invalidated.
func NewRedisExportCache(client *redis.Client, ttl time.Duration) *RedisExportCache {
	return &RedisExportCache{client: client, ttl: ttl}
}

// Get implements ExportCache.
func (c *RedisExportCache) Get(ctx context.Context) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, ExportKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read export cache: %w", err)
	}
	return data, true, nil
}

// Set implements ExportCache.
func (c *RedisExportCache) Set(ctx context.Context, data []byte) error {
	if err := c.client.Set(ctx, ExportKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write export cache: %w", err)
	}
	return nil
}

// Invalidate implements ExportCache.
func (c *RedisExportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, ExportKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate export cache: %w", err)
	}
	return nil
}

// Close releases the Redis client.
func (c *RedisExportCache) Close() error {
	return c.client.Close()
}

// Nop is the ExportCache used when no Redis is configured. It never hits.
type Nop struct{}

func (Nop) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, []byte) error         { return nil }
func (Nop) Invalidate(context.Context) error          { return nil }
func (Nop) Close() error                              { return nil }
