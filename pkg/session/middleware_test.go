package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/pkg/session"
)

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.UserIDFromContext(r.Context())
		if !ok {
			id = "anonymous"
		}
		_, _ = w.Write([]byte(id))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := session.New(session.NewMemoryCache())
	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", token: token, wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "missing token", token: "", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", token: "bogus", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.token != "" {
				req.Header.Set("X-Token", tt.token)
			}
			rec := httptest.NewRecorder()

			m.RequireAuth(echoUser()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestRequireAuth_StoreUnavailable(t *testing.T) {
	t.Parallel()
	m := session.New(brokenCache{}, session.WithLogger(quietLogger()))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("X-Token", "whatever")
	rec := httptest.NewRecorder()

	m.RequireAuth(echoUser()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireAuth_CustomResponder(t *testing.T) {
	t.Parallel()
	var got error
	m := session.New(session.NewMemoryCache(), session.WithErrorResponder(func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	m.RequireAuth(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, session.ErrUnauthenticated)
}

func TestIdentify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := session.New(session.NewMemoryCache())
	token, err := m.Create(ctx, "user-1")
	require.NoError(t, err)

	t.Run("with token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Token", token)
		rec := httptest.NewRecorder()
		m.Identify(echoUser()).ServeHTTP(rec, req)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("without token", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		m.Identify(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("unknown token stays anonymous", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Token", "no-such-token")
		rec := httptest.NewRecorder()
		m.Identify(echoUser()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("store down with token is unavailable", func(t *testing.T) {
		t.Parallel()
		broken := session.New(brokenCache{}, session.WithLogger(quietLogger()))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Token", token)
		rec := httptest.NewRecorder()
		broken.Identify(echoUser()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"Service unavailable"}`, rec.Body.String())
	})

	t.Run("store down without token stays anonymous", func(t *testing.T) {
		t.Parallel()
		broken := session.New(brokenCache{}, session.WithLogger(quietLogger()))
		rec := httptest.NewRecorder()
		broken.Identify(echoUser()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "anonymous", rec.Body.String())
	})
}

func TestHeaderTransport(t *testing.T) {
	t.Parallel()

	t.Run("default header", func(t *testing.T) {
		t.Parallel()
		tr := session.NewHeaderTransport("")
		assert.Equal(t, "X-Token", tr.HeaderName())

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := tr.GetToken(req)
		assert.ErrorIs(t, err, session.ErrNoToken)

		req.Header.Set("X-Token", " abc ")
		tok, err := tr.GetToken(req)
		require.NoError(t, err)
		assert.Equal(t, "abc", tok)
	})

	t.Run("bearer prefix", func(t *testing.T) {
		t.Parallel()
		tr := session.NewHeaderTransport("Authorization", session.WithHeaderPrefix("Bearer "))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer xyz")
		tok, err := tr.GetToken(req)
		require.NoError(t, err)
		assert.Equal(t, "xyz", tok)
	})
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	_, ok := session.UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := session.WithUserID(context.Background(), "user-1", "tok")
	id, ok := session.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	tok, ok := session.TokenFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "tok", tok)

	attr, ok := session.LoggerExtractor()(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-1", attr.Value.String())
}
