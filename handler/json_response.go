package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON encodes v as the response body with status 200 unless overridden.
//
//	return handler.JSON(file, handler.WithJSONStatus(http.StatusCreated))
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err as {"error": message}. An HTTPError anywhere in the
// chain decides status and message; anything else becomes a 500 without
// leaking its text.
func JSONError(err error, opts ...JSONOption) Response {
	httpErr := ErrInternal
	errors.As(err, &httpErr)

	r := &jsonResponse{status: httpErr.Code, body: ErrorBody{Error: httpErr.Message}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
