package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ct "todolists/pkg/context"
)

// CurrentMiddleware attaches a per-request metadata bag to the context so
// deeper layers can log the request id and caller without gin.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		current.Set("request_id", c.GetHeader("X-Request-ID"))

		if requestID := current.Get("request_id"); requestID == "" {
			current.Set("request_id", uuid.New().String())
		}

		current.Set("user_agent", c.Request.UserAgent())
		current.Set("ip_address", c.ClientIP())
		current.Set("method", c.Request.Method)
		current.Set("path", c.Request.URL.Path)

		if userID, exists := c.Get("x-user-id"); exists {
			current.Set("user_id", userID)
		}

		ctx := ct.WithCurrent(c.Request.Context(), current)
		c.Request = c.Request.WithContext(ctx)

		c.Set("current", current)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	if current, ok := ct.FromContext(c.Request.Context()); ok {
		return current
	}

	return ct.NewCurrent()
}
