package session

import "time"

// Config holds session configuration.
type Config struct {
	// TTL is how long a token stays valid after it is issued.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// HeaderName carries the token on inbound requests.
	HeaderName string `env:"SESSION_HEADER" envDefault:"X-Token"`

	// KeyPrefix namespaces session keys inside the cache.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"auth_"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		TTL:        24 * time.Hour,
		HeaderName: "X-Token",
		KeyPrefix:  "auth_",
	}
}

// NewFromConfig creates a Manager over cache using cfg, then applies opts.
func NewFromConfig(cache Cache, cfg Config, opts ...Option) *Manager {
	return New(cache, append([]Option{WithConfig(cfg)}, opts...)...)
}
