package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// Manager maps opaque bearer tokens to user ids inside a Cache.
// It is the only component that reads or writes session keys.
type Manager struct {
	cache     Cache
	config    Config
	transport Transport
	logger    *slog.Logger
	tokenFunc func() (string, error)
	onError   ErrorResponder
}

// New creates a session manager over cache.
// Panics when cache is nil so a miswired process fails at startup.
func New(cache Cache, opts ...Option) *Manager {
	if cache == nil {
		panic("session: cache is required")
	}

	m := &Manager{
		cache:     cache,
		config:    DefaultConfig(),
		logger:    slog.Default(),
		tokenFunc: generateToken,
		onError:   writeJSONError,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.config.TTL <= 0 {
		m.config.TTL = DefaultConfig().TTL
	}
	if m.transport == nil {
		m.transport = NewHeaderTransport(m.config.HeaderName)
	}

	return m
}

// Create issues a fresh token for userID and stores it with the configured TTL.
// It fails only when the token cannot be generated or the cache is unavailable.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}

	token, err := m.tokenFunc()
	if err != nil {
		return "", err
	}

	if err := m.cache.Set(ctx, m.key(token), userID, m.config.TTL); err != nil {
		return "", m.unavailable(ctx, "create", err)
	}

	return token, nil
}

// Resolve returns the user id bound to token.
// An unknown, expired or revoked token yields ("", false, nil).
func (m *Manager) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	userID, ok, err := m.cache.Get(ctx, m.key(token))
	if err != nil {
		return "", false, m.unavailable(ctx, "resolve", err)
	}
	if !ok || userID == "" {
		return "", false, nil
	}

	return userID, true, nil
}

// Revoke deletes the session behind token and reports whether one existed.
// Revoking an already revoked token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	existed, err := m.cache.Del(ctx, m.key(token))
	if err != nil {
		return false, m.unavailable(ctx, "revoke", err)
	}

	return existed, nil
}

// TTL returns the lifetime given to new sessions.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Transport returns the transport used to read tokens from requests.
func (m *Manager) Transport() Transport {
	return m.transport
}

func (m *Manager) key(token string) string {
	return m.config.KeyPrefix + token
}

func (m *Manager) unavailable(ctx context.Context, op string, err error) error {
	m.logger.ErrorContext(ctx, "session store unavailable",
		logger.Component("session"),
		slog.String("op", op),
		logger.Error(err),
	)
	return errors.Join(ErrStoreUnavailable, err)
}

// generateToken creates a cryptographically secure token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
