// Package requestctx carries the acting user and request id of one logical
// request on a context.Context.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// Actor identifies who triggered the work. UserID is nil for anonymous
// requests and background jobs.
type Actor struct {
	UserID    *uuid.UUID
	RequestID string
}

type actorKey struct{}

// WithActor returns ctx with the authenticated user set, keeping any request id.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	a := ActorFrom(ctx)
	id := userID
	a.UserID = &id
	return context.WithValue(ctx, actorKey{}, a)
}

// WithRequestID returns ctx with the request id set, keeping any user.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	a := ActorFrom(ctx)
	a.RequestID = requestID
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor on ctx, or the zero Actor.
func ActorFrom(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// UserID returns the authenticated user id and whether one is set.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	a := ActorFrom(ctx)
	if a.UserID == nil {
		return uuid.Nil, false
	}
	return *a.UserID, true
}
