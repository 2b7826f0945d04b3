package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/binder"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/requestid"
)

type createRequest struct {
	Name string `json:"name"`
}

type fileRequest struct {
	ID   string `path:"id"`
	Size int    `query:"size"`
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("binds json and renders response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, createRequest](func(ctx handler.Context, req createRequest) handler.Response {
				return handler.JSON(map[string]string{"name": req.Name}, handler.WithJSONStatus(http.StatusCreated))
			}),
			handler.WithBinders[handler.Context, createRequest](binder.JSON()),
		)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"photo.png"}`))
		r.Header.Set("Content-Type", "application/json")
		h(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"name":"photo.png"}`, w.Body.String())
	})

	t.Run("empty body skips json binder", func(t *testing.T) {
		t.Parallel()
		var called bool
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, createRequest](func(ctx handler.Context, req createRequest) handler.Response {
				called = true
				assert.Empty(t, req.Name)
				return handler.Empty()
			}),
			handler.WithBinders[handler.Context, createRequest](binder.JSON()),
		)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("malformed json goes to error handler", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, createRequest](func(ctx handler.Context, req createRequest) handler.Response {
				t.Fatal("handler must not run")
				return nil
			}),
			handler.WithBinders[handler.Context, createRequest](binder.JSON()),
		)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		r.Header.Set("Content-Type", "application/json")
		h(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid JSON"}`, w.Body.String())
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(
			handler.HandlerFunc[handler.Context, createRequest](func(ctx handler.Context, req createRequest) handler.Response {
				return nil
			}),
			handler.WithErrorHandler[handler.Context, createRequest](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}),
		)

		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, handler.ErrNilResponse)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("path and query binders with chi", func(t *testing.T) {
		t.Parallel()
		router := chi.NewRouter()
		router.Get("/files/{id}/data", handler.Wrap(
			handler.HandlerFunc[handler.Context, fileRequest](func(ctx handler.Context, req fileRequest) handler.Response {
				return handler.JSON(req)
			}),
			handler.WithBinders[handler.Context, fileRequest](binder.Path(chi.URLParam), binder.Query()),
		))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/files/abc/data?size=250", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got fileRequest
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, fileRequest{ID: "abc", Size: 250}, got)
	})
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), key{}, "value"))
	w := httptest.NewRecorder()

	ctx := handler.NewContext(w, r)

	assert.Same(t, r, ctx.Request())
	assert.Equal(t, w, ctx.ResponseWriter())
	assert.Equal(t, "value", ctx.Value(key{}))
	assert.NoError(t, ctx.Err())
}

func TestNewErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantLevel  string
	}{
		{
			name:       "http error",
			err:        handler.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Unauthorized"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "unsupported media type",
			err:        binder.ErrUnsupportedMediaType,
			wantStatus: http.StatusUnsupportedMediaType,
			wantBody:   `{"error":"Unsupported media type"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "query parse failure",
			err:        binder.ErrFailedToParseQuery,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Bad request"}`,
			wantLevel:  "WARN",
		},
		{
			name:       "unknown error",
			err:        assert.AnError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
			wantLevel:  "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			log := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter())

			r := httptest.NewRequest(http.MethodGet, "/files/1", nil)
			r = r.WithContext(requestid.WithContext(r.Context(), "req-1"))
			w := httptest.NewRecorder()

			handler.NewErrorHandler(log)(handler.NewContext(w, r), tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "req-1", entry["request_id"])
			assert.Equal(t, "/files/1", entry["path"])
		})
	}
}
