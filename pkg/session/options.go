package session

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithTTL sets the lifetime of new sessions.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.config.TTL = ttl
		}
	}
}

// WithKeyPrefix sets the cache key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(m *Manager) {
		m.config.KeyPrefix = prefix
	}
}

// WithTransport sets a custom token transport.
func WithTransport(t Transport) Option {
	return func(m *Manager) {
		if t != nil {
			m.transport = t
		}
	}
}

// WithLogger sets the logger used to report store faults.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTokenGenerator overrides token generation. Tests use it for fixed tokens.
func WithTokenGenerator(fn func() (string, error)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.tokenFunc = fn
		}
	}
}

// WithErrorResponder controls how the middleware renders rejections.
func WithErrorResponder(fn ErrorResponder) Option {
	return func(m *Manager) {
		if fn != nil {
			m.onError = fn
		}
	}
}
