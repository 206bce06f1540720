package middleware

import "github.com/gin-gonic/gin"

const actorIDKey = contextKey("actorID")

// defaultActorID is recorded in audit fields when the client does not identify
// the operator.
const defaultActorID = "system"

// ActorMiddleware captures the operator identity from the X-Actor-ID header
// and stores it in the Gin context for audit trails.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader("X-Actor-ID")
		if actorID == "" {
			actorID = defaultActorID
		}
		c.Set(string(actorIDKey), actorID)
		c.Next()
	}
}

// GetActorIDFromContext retrieves the operator identity from the Gin context.
func GetActorIDFromContext(c *gin.Context) string {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return defaultActorID
	}

	actorID, ok := actorIDVal.(string)
	if !ok || actorID == "" {
		return defaultActorID
	}

	return actorID
}
