package session

import (
	"context"
	"time"
)

// Cache is the key-value contract the session store needs.
// Implementations enforce ttl themselves; the Manager never sweeps.
// Get and Del report absence through their bool result, not an error.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) (bool, error)
}
