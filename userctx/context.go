package userctx

import (
	"context"

	"github.com/blogem/caseledger/models"
)

// Context key type
type contextKey string

const actorKey contextKey = "actor"

// SetActor adds the authenticated caller to request context
func SetActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor retrieves the authenticated caller from request context
func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}

// GetUsername returns the caller's username, or "anonymous"
func GetUsername(ctx context.Context) string {
	if actor, ok := GetActor(ctx); ok && actor.Username != "" {
		return actor.Username
	}
	return "anonymous"
}
