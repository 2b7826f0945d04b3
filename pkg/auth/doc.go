// Package auth verifies email and password credentials and exchanges them
// for session tokens.
//
// Credentials arrive in an Authorization header as "Basic base64(email:password)".
// ParseBasic splits the decoded value on the first colon and requires both
// parts to be non-empty.
//
// Authenticator.Connect answers every credential problem with ErrUnauthorized:
// a malformed header, an unknown email and a wrong password are
// indistinguishable to the caller. When the email is unknown a comparison
// against a dummy bcrypt hash still runs, so response time does not reveal
// whether the account exists. Infrastructure faults from the account store or
// the session store are reported as ErrStoreUnavailable instead.
//
// Usage:
//
//	authn := auth.NewAuthenticator(repository.Accounts(repo), sessions)
//	token, err := authn.Connect(ctx, r.Header.Get("Authorization"))
//	switch {
//	case errors.Is(err, auth.ErrUnauthorized):
//		// 401
//	case errors.Is(err, auth.ErrStoreUnavailable):
//		// 503
//	}
//
//	err = authn.Disconnect(ctx, r.Header.Get("X-Token"))
//
// Passwords are hashed with bcrypt through the PasswordHasher interface.
// Tests pass NewBcryptHasher(bcrypt.MinCost) to keep hashing fast.
package auth
