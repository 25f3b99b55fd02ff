package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const userKey contextKey = "user"

// ErrUserNotFound is returned when no user identity exists in the request
// context. Handlers should return 401 when this error occurs.
var ErrUserNotFound = errors.New("user not found in context")

// UserFromCtx extracts the authenticated username from the request context.
// Returns ErrUserNotFound if none is set (unauthenticated request).
func UserFromCtx(ctx context.Context) (string, error) {
	user, ok := ctx.Value(userKey).(string)
	if !ok || user == "" {
		return "", ErrUserNotFound
	}
	return user, nil
}

// WithUser returns a new context with the given username attached.
// Used by authentication middleware after validating the session.
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}
