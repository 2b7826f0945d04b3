package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/filesmanager/pkg/binder"
)

// HandlerFunc answers one bound request. R is the request struct the
// binders fill from the path, the query string and the body.
//
//	type publishRequest struct {
//		ID string `path:"id"`
//	}
//
//	publish := handler.HandlerFunc[handler.Context, publishRequest](
//		func(ctx handler.Context, req publishRequest) handler.Response {
//			f, found, err := repo.SetFilePublic(ctx, req.ID, ownerOf(ctx), true)
//			if err != nil {
//				return handler.JSONError(err)
//			}
//			if !found {
//				return handler.JSONError(handler.ErrNotFound)
//			}
//			return handler.JSON(f)
//		},
//	)
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter.
// A render error is passed to the ErrorHandler; nothing is written yet when
// the built-in responses fail.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind fills v from r. A binder that has nothing to read returns
// binder.ErrBinderNotApplicable and is skipped.
type Bind func(r *http.Request, v any) error

// ErrorHandler answers a request whose binding or rendering failed.
type ErrorHandler[C Context] func(ctx C, err error)

// WrapOption configures Wrap.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders      []Bind
	errorHandler ErrorHandler[C]
}

// WithBinders appends binders, applied in order. Each reads only its own
// struct tags, so path, query and JSON binders can share one request type:
//
//	type fileDataRequest struct {
//		ID   string `path:"id"`
//		Size int    `query:"size"`
//	}
//
//	r.Get("/files/{id}/data", handler.Wrap(getFileData,
//		handler.WithBinders[handler.Context, fileDataRequest](
//			binder.Path(chi.URLParam),
//			binder.Query(),
//		),
//	))
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler replaces the default error handler, which renders the
// classified error without logging it.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func defaultErrorHandler[C Context](ctx C, err error) {
	_ = JSONError(classifyError(err)).Render(ctx.ResponseWriter(), ctx.Request())
}

// Wrap adapts h to net/http. C must be Context itself; Wrap panics at
// construction otherwise.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	var sample Context = NewContext(nil, nil)
	if _, ok := sample.(C); !ok {
		panic("handler: Wrap supports handler.Context only")
	}

	cfg := &wrapConfig[C, R]{errorHandler: defaultErrorHandler[C]}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := any(NewContext(w, r)).(C)

		var req R
		for _, bind := range cfg.binders {
			err := bind(r, &req)
			if errors.Is(err, binder.ErrBinderNotApplicable) {
				continue
			}
			if err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := h(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
