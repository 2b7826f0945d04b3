package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesmanager/handler"
	"github.com/dmitrymomot/filesmanager/pkg/auth"
	"github.com/dmitrymomot/filesmanager/pkg/file"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/session"
	"github.com/dmitrymomot/filesmanager/svc/repository"
)

// Client-facing errors. Messages are part of the API contract.
var (
	ErrMissingEmail    = handler.NewHTTPError(http.StatusBadRequest, "Missing email")
	ErrMissingPassword = handler.NewHTTPError(http.StatusBadRequest, "Missing password")
	ErrAlreadyExist    = handler.NewHTTPError(http.StatusBadRequest, "Already exist")
	ErrMissingName     = handler.NewHTTPError(http.StatusBadRequest, "Missing name")
	ErrMissingType     = handler.NewHTTPError(http.StatusBadRequest, "Missing type")
	ErrMissingData     = handler.NewHTTPError(http.StatusBadRequest, "Missing data")
	ErrInvalidData     = handler.NewHTTPError(http.StatusBadRequest, "Invalid data")
	ErrParentNotFound  = handler.NewHTTPError(http.StatusBadRequest, "Parent not found")
	ErrParentNotFolder = handler.NewHTTPError(http.StatusBadRequest, "Parent is not a folder")
	ErrFolderHasNoData = handler.NewHTTPError(http.StatusBadRequest, "A folder doesn't have content")
	ErrInvalidSize     = handler.NewHTTPError(http.StatusBadRequest, "Invalid size")
)

// failure logs an unexpected collaborator error and maps it to a response.
// Store faults become 503, anything else 500.
func (a *api) failure(ctx context.Context, op string, err error) handler.Response {
	status := handler.ErrInternal
	switch {
	case errors.Is(err, repository.ErrUnavailable),
		errors.Is(err, auth.ErrStoreUnavailable),
		errors.Is(err, session.ErrStoreUnavailable),
		errors.Is(err, file.ErrServiceUnavailable):
		status = handler.ErrServiceUnavailable
	}

	a.logger.ErrorContext(ctx, "request failed",
		logger.Component("api"),
		slog.String("op", op),
		logger.Error(err),
	)
	return handler.JSONError(status)
}
