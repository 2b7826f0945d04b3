package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesmanager/pkg/binder"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/requestid"
)

// classifyError maps err to the HTTPError it is answered with.
// Binding failures are client errors.
func classifyError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return NewHTTPError(http.StatusUnsupportedMediaType, "Unsupported media type")
	case errors.Is(err, binder.ErrFailedToParseJSON):
		return NewHTTPError(http.StatusBadRequest, "Invalid JSON")
	case errors.Is(err, binder.ErrFailedToParseQuery), errors.Is(err, binder.ErrFailedToParsePath):
		return ErrBadRequest
	}
	return ErrInternal
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler returns the error handler used by every route: it logs the
// failure with the request id and answers {"error": message}.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := classifyError(err)

		log.LogAttrs(r.Context(), determineLogLevel(info.Code), "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.Code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(info).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
