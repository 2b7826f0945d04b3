package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/auth"
	"github.com/dmitrymomot/filesmanager/pkg/binder"
	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/httpserver"
	"github.com/dmitrymomot/filesmanager/pkg/queue"
	"github.com/dmitrymomot/filesmanager/pkg/requestid"
	"github.com/dmitrymomot/filesmanager/pkg/session"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

// DefaultMaxBodySize bounds JSON bodies, base64 file content included.
const DefaultMaxBodySize int64 = 10 << 20

// Enqueuer schedules background jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType queue.JobType, payload queue.Payload, opts ...queue.EnqueueOption) (queue.Handle, error)
}

// RouterOptions wires the API to its collaborators.
// Repository, Blobs, Sessions, Auth and Jobs are required.
type RouterOptions struct {
	Repository repository.Repository
	Blobs      file.Storage
	Sessions   *session.Manager
	Auth       *auth.Authenticator
	Jobs       Enqueuer

	// RedisCheck and DBCheck feed GET /status. A nil check reports false.
	RedisCheck httpserver.Check
	DBCheck    httpserver.Check

	MaxBodySize int64
	Logger      *slog.Logger
}

type api struct {
	repo     repository.Repository
	blobs    file.Storage
	sessions *session.Manager
	auth     *auth.Authenticator
	jobs     Enqueuer

	redisCheck httpserver.Check
	dbCheck    httpserver.Check

	maxBodySize int64
	logger      *slog.Logger
	onError     handler.ErrorHandler[handler.Context]
}

// Router builds the files manager HTTP API.
//
//	r := chi.NewRouter()
//	r.Mount("/", api.Router(api.RouterOptions{
//		Repository: repo,
//		Blobs:      blobs,
//		Sessions:   sessions,
//		Auth:       authenticator,
//		Jobs:       enqueuer,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Repository == nil || opts.Blobs == nil || opts.Sessions == nil || opts.Auth == nil || opts.Jobs == nil {
		panic("api: repository, blobs, sessions, auth and jobs are required")
	}

	a := &api{
		repo:        opts.Repository,
		blobs:       opts.Blobs,
		sessions:    opts.Sessions,
		auth:        opts.Auth,
		jobs:        opts.Jobs,
		redisCheck:  opts.RedisCheck,
		dbCheck:     opts.DBCheck,
		maxBodySize: opts.MaxBodySize,
		logger:      opts.Logger,
	}
	if a.maxBodySize <= 0 {
		a.maxBodySize = DefaultMaxBodySize
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.onError = handler.NewErrorHandler(a.logger)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, middleware.Recoverer)
	r.NotFound(a.notFound)
	r.MethodNotAllowed(a.methodNotAllowed)

	r.Get("/status", wrap(a, a.getStatus))
	r.Get("/stats", wrap(a, a.getStats))
	r.Post("/users", wrap(a, a.postUser, binder.JSONWithLimit(a.maxBodySize)))
	r.Get("/connect", wrap(a, a.getConnect))
	r.Get("/disconnect", wrap(a, a.getDisconnect))

	r.Group(func(r chi.Router) {
		r.Use(a.sessions.RequireAuth)

		r.Get("/users/me", wrap(a, a.getMe))
		r.Post("/files", wrap(a, a.postFile, binder.JSONWithLimit(a.maxBodySize)))
		r.Get("/files", wrap(a, a.listFiles, binder.Query()))
		r.Get("/files/{id}", wrap(a, a.getFile, binder.Path(chi.URLParam)))
		r.Put("/files/{id}/publish", wrap(a, a.publish, binder.Path(chi.URLParam)))
		r.Put("/files/{id}/unpublish", wrap(a, a.unpublish, binder.Path(chi.URLParam)))
	})

	// Public files are readable anonymously, so only identify the caller.
	r.With(a.sessions.Identify).Get("/files/{id}/data", wrap(a, a.getFileData, binder.Path(chi.URLParam), binder.Query()))

	return r
}

type noRequest struct{}

func wrap[R any](a *api, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](a.onError),
	)
}

func (a *api) notFound(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrNotFound).Render(w, r)
}

func (a *api) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrMethodNotAllowed).Render(w, r)
}
