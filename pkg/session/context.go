package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

type userIDContextKey struct{}
type tokenContextKey struct{}

// WithUserID stores the authenticated user id and its token in ctx.
func WithUserID(ctx context.Context, userID, token string) context.Context {
	ctx = context.WithValue(ctx, userIDContextKey{}, userID)
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// UserIDFromContext returns the user id resolved by the middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey{}).(string)
	return id, ok && id != ""
}

// TokenFromContext returns the token the request was authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok && token != ""
}

// LoggerExtractor adds user_id to log records written with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := UserIDFromContext(ctx); ok {
			return logger.UserID(id), true
		}
		return slog.Attr{}, false
	}
}
