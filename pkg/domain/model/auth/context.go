// Package auth carries the acting user through request contexts.
// Authentication itself happens in front of this service.
package auth

import (
	"context"
	"errors"

	"github.com/bugnest/bugnest/pkg/domain/model"
)

// ErrNoUser is returned when the context carries no acting user
var ErrNoUser = errors.New("no acting user in context")

type ctxUserIDKey struct{}

// ContextWithUserID returns a context carrying the acting user
func ContextWithUserID(ctx context.Context, id model.UserID) context.Context {
	return context.WithValue(ctx, ctxUserIDKey{}, id)
}

// UserIDFromContext returns the acting user or ErrNoUser
func UserIDFromContext(ctx context.Context) (model.UserID, error) {
	id, ok := ctx.Value(ctxUserIDKey{}).(model.UserID)
	if !ok || id == "" {
		return "", ErrNoUser
	}
	return id, nil
}
