package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/model"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
)

const identityKey = "identity"

// RequireAuth guards protected endpoints. Requests without a valid
// session cookie are rejected with 401 before the handler runs.
func RequireAuth(cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromRequest(c, cfg)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(identityKey, identity)

		// Propagate to the request context for logger enrichment
		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, identity.Username)
		ctx = context.WithValue(ctx, logger.RoleKey, identity.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetIdentity returns the authenticated identity resolved by RequireAuth.
func GetIdentity(c *gin.Context) *model.Identity {
	if v, exists := c.Get(identityKey); exists {
		if identity, ok := v.(*model.Identity); ok {
			return identity
		}
	}
	return nil
}
