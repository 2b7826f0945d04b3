// Package handler provides type-safe HTTP request handling.
//
// A handler is a generic function that receives a bound request struct and
// returns a Response. Wrap turns it into an http.HandlerFunc: binders fill the
// request struct and any binding or rendering failure goes to the configured
// ErrorHandler.
//
//	type getFileRequest struct {
//		ID string `path:"id"`
//	}
//
//	func getFile(ctx handler.Context, req getFileRequest) handler.Response {
//		f, err := repo.FindFile(ctx, req.ID)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(f)
//	}
//
//	r.Get("/files/{id}", handler.Wrap(getFile,
//		handler.WithBinders[handler.Context, getFileRequest](binder.Path(chi.URLParam)),
//		handler.WithErrorHandler[handler.Context, getFileRequest](handler.NewErrorHandler(log)),
//	))
//
// # Responses
//
// JSON encodes a value, JSONError renders {"error": message} with the status
// of the HTTPError found in the error chain (500 otherwise), Blob writes raw
// bytes with a content type, and Empty/EmptyWithStatus write only a status.
//
// # Errors
//
// HTTPError pairs a status code with the message sent to the client. The
// predefined values (ErrUnauthorized, ErrNotFound, ...) cover the common
// cases; NewHTTPError builds the rest.
package handler
