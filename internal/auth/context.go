package auth

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated identity making a request, carried in the
// request context by the auth middleware.
type Actor struct {
	UserID   uuid.UUID
	OrgID    *uuid.UUID // Nullable - users may not belong to an organization
	Username string
}

type contextKey int

const (
	actorContextKey contextKey = iota
)

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext extracts the authenticated actor from the request context.
// Returns nil if no actor is present (unauthenticated request).
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorContextKey).(*Actor)
	return actor
}
