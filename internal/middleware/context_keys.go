package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the acting user's identity in the request
// context. Authentication itself lives outside this service; the actor only
// feeds the audit log.
const actorKey = contextKey("actor")

// DefaultActor is recorded when no actor header is present.
const DefaultActor = "system"

// ActorHeader is the request header carrying the acting user's identity.
const ActorHeader = "X-Actor"

// ActorResolutionMiddleware resolves the acting user from the request header
// and stores it in the request context for audit purposes.
func ActorResolutionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			actor = DefaultActor
		}
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromCtx retrieves the acting user from a context.
func GetActorFromCtx(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey).(string); ok && actor != "" {
		return actor
	}
	return DefaultActor
}
