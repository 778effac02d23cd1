// Package actorctx carries the authenticated caller through a request
// context. Write operations read the actor from here instead of accepting a
// loose id per call; the auth middleware installs it exactly once.
package actorctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Actor struct {
	ID   snowflake.ID
	Name string
	Role string
}

type contextKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}
