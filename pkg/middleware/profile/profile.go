package profile

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderKey carries the planner profile identifier between client and server.
	HeaderKey  = "X-Profile-ID"
	contextKey = "profile_id"
)

// Middleware resolves the planner profile for a request. Clients without a profile receive a fresh
// one echoed back in the response header so they can keep using it.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderKey))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		Set(c, id)
		c.Writer.Header().Set(HeaderKey, id)

		c.Next()
	}
}

// Set stores a profile ID in the Gin context.
func Set(c *gin.Context, id string) {
	c.Set(contextKey, id)
}

// Value returns the profile ID stored in the Gin context.
func Value(c *gin.Context) string {
	if v, exists := c.Get(contextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
