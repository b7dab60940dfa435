package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/access"
	"reviewhub/internal/httpapi/service"
)

const actorKey = "actor"

// RequireAuth rejects requests without a valid bearer token and stores
// the resolved actor in the gin context for handlers to pick up.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolveActor(c, authService)
		if !ok {
			c.Abort()
			return
		}
		if !actor.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuth resolves the actor when a token is present and falls back
// to the anonymous actor when the header is absent. A present-but-invalid
// token is still rejected, so a client never silently degrades to
// anonymous because of an expired token.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolveActor(c, authService)
		if !ok {
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func resolveActor(c *gin.Context, authService service.AuthService) (access.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return access.Anonymous, true
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
		return access.Anonymous, false
	}

	actor, err := authService.ValidateToken(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return access.Anonymous, false
	}
	return actor, true
}

// ActorFromContext returns the actor stored by the auth middleware, or
// the anonymous actor on routes without auth middleware.
func ActorFromContext(c *gin.Context) access.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(access.Actor); ok {
			return actor
		}
	}
	return access.Anonymous
}
