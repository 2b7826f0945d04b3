package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a string key-value store with native expiry.
// It backs the session store; a missing key is reported as found=false,
// never as an error.
type Cache struct {
	db     redis.UniversalClient
	prefix string
}

// NewCache wraps an existing client. The prefix is prepended to every key.
func NewCache(client redis.UniversalClient, prefix string) *Cache {
	return &Cache{db: client, prefix: prefix}
}

// Set stores value under key. A zero ttl keeps the key until it is deleted.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.db.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Get returns the value stored under key. Expired keys are not found.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.db.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Join(ErrUnavailable, err)
	}
	return val, true, nil
}

// Del removes key and reports whether it existed.
func (c *Cache) Del(ctx context.Context, key string) (bool, error) {
	n, err := c.db.Del(ctx, c.prefix+key).Result()
	if err != nil {
		return false, errors.Join(ErrUnavailable, err)
	}
	return n > 0, nil
}

// Ping reports whether the server answers.
func (c *Cache) Ping(ctx context.Context) error {
	return Healthcheck(c.db)(ctx)
}

// Client returns the underlying client for callers that need raw commands.
func (c *Cache) Client() redis.UniversalClient {
	return c.db
}
