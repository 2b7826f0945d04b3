// Package binder fills request structs from JSON bodies, query strings and
// router path parameters.
//
// Each constructor returns a func(r *http.Request, v any) error that plugs
// into handler.WithBinders. Binders only touch fields carrying their own tag
// (`query`, `path`) or, for JSON, the json tags of the target. A JSON binder
// facing an empty body returns ErrBinderNotApplicable so the wrapper moves on
// and the handler sees zero values.
//
//	type ListFilesRequest struct {
//		ParentID string `query:"parentId"`
//		Page     int    `query:"page"`
//	}
//
//	r.Get("/files", handler.Wrap(listFiles,
//		handler.WithBinders[handler.Context, ListFilesRequest](binder.Query()),
//	))
//
// Supported scalar kinds are string, signed and unsigned integers, floats and
// bool, plus pointers and slices of those. Failures wrap the sentinel of the
// binder (ErrFailedToParseJSON, ErrFailedToParseQuery, ErrFailedToParsePath).
package binder
