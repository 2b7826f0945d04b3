// Package session maps opaque bearer tokens to user ids.
//
// Sessions live in a Cache under "<prefix><token>" with a fixed TTL. Expiry is
// delegated to the cache; the Manager keeps no local state and never sweeps.
// Tokens are 32 random bytes encoded as unpadded base64url.
//
// Two caches ship with the module: MemoryCache for tests and single-process
// development, and redis.Cache from pkg/redis for production.
//
// # Usage
//
//	cache := redis.NewCache(client, "")
//	sessions := session.New(cache, session.WithTTL(24*time.Hour))
//
//	token, err := sessions.Create(ctx, user.ID)
//	userID, ok, err := sessions.Resolve(ctx, token)
//	existed, err := sessions.Revoke(ctx, token)
//
// # Middleware
//
// RequireAuth reads the token through the configured Transport (the X-Token
// header by default). Missing, unknown, expired and revoked tokens are answered
// with the same 401 body; a cache fault is answered with 503 and wraps
// ErrStoreUnavailable so callers can tell the two apart.
//
//	r.With(sessions.RequireAuth).Get("/users/me", me)
//	userID, _ := session.UserIDFromContext(r.Context())
//
// Identify performs the same lookup but never rejects, which suits routes where
// authentication widens access rather than gating it.
package session
