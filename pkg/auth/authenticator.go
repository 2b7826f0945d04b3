package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// Account is the subset of a user record needed to verify credentials.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
}

// AccountStore looks up accounts by email. A missing account is reported
// with found=false, never as an error.
type AccountStore interface {
	FindAccountByEmail(ctx context.Context, email string) (Account, bool, error)
}

// Sessions is the session store contract the authenticator relies on.
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Revoke(ctx context.Context, token string) (bool, error)
}

// Authenticator verifies Basic credentials and mints sessions.
type Authenticator struct {
	accounts AccountStore
	sessions Sessions
	hasher   PasswordHasher
	logger   *slog.Logger

	// dummyHash is compared against when the identity is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithHasher replaces the default bcrypt hasher.
func WithHasher(h PasswordHasher) Option {
	return func(a *Authenticator) {
		if h != nil {
			a.hasher = h
		}
	}
}

// WithLogger sets the logger used to report store faults.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(accounts AccountStore, sessions Sessions, opts ...Option) *Authenticator {
	if accounts == nil || sessions == nil {
		panic("auth: account store and session store are required")
	}

	a := &Authenticator{
		accounts: accounts,
		sessions: sessions,
		hasher:   NewBcryptHasher(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if hash, err := a.hasher.Hash("dummy-password-for-timing"); err == nil {
		a.dummyHash = hash
	}

	return a
}

// Connect verifies the Basic credentials in header and returns a new session token.
// Every credential failure returns ErrUnauthorized. Store faults return
// ErrStoreUnavailable joined with the cause.
func (a *Authenticator) Connect(ctx context.Context, header string) (string, error) {
	email, password, ok := ParseBasic(header)
	if !ok {
		return "", ErrUnauthorized
	}
	email = strings.ToLower(strings.TrimSpace(email))

	account, found, err := a.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		return "", a.unavailable(ctx, "find account", err)
	}
	if !found {
		a.hasher.Compare(a.dummyHash, password)
		return "", ErrUnauthorized
	}

	if !a.hasher.Compare(account.PasswordHash, password) {
		return "", ErrUnauthorized
	}

	token, err := a.sessions.Create(ctx, account.ID)
	if err != nil {
		return "", a.unavailable(ctx, "create session", err)
	}

	return token, nil
}

// Disconnect revokes the session behind token.
// An empty, unknown or already revoked token returns ErrUnauthorized.
func (a *Authenticator) Disconnect(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	existed, err := a.sessions.Revoke(ctx, token)
	if err != nil {
		return a.unavailable(ctx, "revoke session", err)
	}
	if !existed {
		return ErrUnauthorized
	}

	return nil
}

func (a *Authenticator) unavailable(ctx context.Context, op string, err error) error {
	a.logger.ErrorContext(ctx, "auth store unavailable",
		logger.Component("auth"),
		slog.String("op", op),
		logger.Error(err),
	)
	return errors.Join(ErrStoreUnavailable, err)
}
