package session

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorResponder renders a rejected request.
// err is ErrUnauthenticated or wraps ErrStoreUnavailable.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// Identify resolves the request token when present and stores the user id in
// the request context. Requests without a live session pass through
// anonymous. A presented token that can't be checked because the cache is
// down is answered with 503.
func (m *Manager) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.transport.GetToken(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, ok, err := m.Resolve(r.Context(), token)
		if err != nil {
			m.onError(w, r, err)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID, token)))
	})
}

// RequireAuth rejects requests without a live session.
// Absent, unknown, expired and revoked tokens get the same 401 answer.
// A cache fault is answered with 503, never as unauthenticated.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.transport.GetToken(r)
		if err != nil {
			m.onError(w, r, ErrUnauthenticated)
			return
		}

		userID, ok, err := m.Resolve(r.Context(), token)
		if err != nil {
			m.onError(w, r, err)
			return
		}
		if !ok {
			m.onError(w, r, ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID, token)))
	})
}

func writeJSONError(w http.ResponseWriter, _ *http.Request, err error) {
	status, msg := http.StatusUnauthorized, "Unauthorized"
	if errors.Is(err, ErrStoreUnavailable) {
		status, msg = http.StatusServiceUnavailable, "Service unavailable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
