// Package redis connects to Redis and exposes the cache layer used by the
// session store.
//
// Connect parses a redis:// URL and pings the server with retries, so the
// process fails at startup rather than on the first request. Cache wraps the
// resulting client with context-aware Set/Get/Del calls where expiry is left
// to Redis itself (SET ... PX), and every transport failure is wrapped in
// ErrUnavailable so callers can tell "key absent" from "store down".
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	cache := redis.NewCache(client, cfg.KeyPrefix)
//	_ = cache.Set(ctx, "auth_"+token, userID, 24*time.Hour)
//
// Healthcheck returns a probe function suitable for readiness endpoints.
package redis
