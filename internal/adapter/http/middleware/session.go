package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"todolists/internal/adapter/http/helper"
	"todolists/internal/core/port"
)

// SessionCookieName is accepted alongside the Authorization header so both
// browser and API clients can hold a session.
const SessionCookieName = "session_id"

// SessionMiddleware resolves the opaque session token to a user id and
// stores it as "x-user-id". Requests without a live session are rejected
// before reaching any handler.
func SessionMiddleware(sessions port.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		if token == "" {
			helper.SendUnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		userID, ok, err := sessions.Lookup(c.Request.Context(), token)

		if err != nil {
			helper.SendInternalError(c, "session lookup failed")
			c.Abort()
			return
		}

		if !ok {
			helper.SendUnauthorizedError(c, "Authentication required")
			c.Abort()
			return
		}

		c.Set("x-user-id", userID)
		c.Set("x-session-token", token)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
	}

	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}

	return ""
}

// CurrentUserID reads the authenticated user id set by SessionMiddleware.
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64("x-user-id")
}
