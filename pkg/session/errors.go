package session

import "errors"

var (
	// ErrStoreUnavailable indicates the backing cache could not be reached.
	// It is never folded into an "unauthenticated" answer.
	ErrStoreUnavailable = errors.New("session.store_unavailable")

	// ErrInvalidUserID indicates an attempt to create a session for an empty user id.
	ErrInvalidUserID = errors.New("session.invalid_user_id")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrNoToken indicates the request carries no session token.
	ErrNoToken = errors.New("session.no_token")

	// ErrUnauthenticated is passed to the error responder when a token is
	// absent, unknown, expired or revoked.
	ErrUnauthenticated = errors.New("session.unauthenticated")
)
