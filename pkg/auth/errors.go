package auth

import "errors"

var (
	// ErrUnauthorized is returned for every credential failure: malformed
	// header, unknown identity, wrong secret, missing or revoked token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStoreUnavailable indicates the account store or the session store
	// could not be reached. It is never reported as ErrUnauthorized.
	ErrStoreUnavailable = errors.New("auth store unavailable")

	// ErrPasswordRequired is returned when hashing an empty password.
	ErrPasswordRequired = errors.New("password is required")
)
