package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// actorIDHeader carries the caller identity asserted by the gateway in
// front of this service. Identity verification happens there, not here.
const actorIDHeader = "X-Actor-ID"

// ActorMiddleware extracts the acting user from the request header and
// stores it in the context. Mutating endpoints reject requests without it.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorIDHeader)
		if actorID != "" {
			c.Set(string(actorIDKey), actorID)
			ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user's ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(actorIDKey)
		if ctxVal != nil {
			if id, ok := ctxVal.(string); ok {
				return id, true
			}
		}
		return "", false
	}

	actorID, ok := actorIDVal.(string)
	if !ok {
		return "", false
	}

	return actorID, true
}

// RequireActorID aborts with 401 when no actor identity is present.
// Applied to all mutating route groups.
func RequireActorID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetActorIDFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorIDHeader + " header"})
			return
		}
		c.Next()
	}
}
