package middleware

import (
	"github.com/gin-gonic/gin"
)

// OptionalSessionMiddleware sets the session id when a valid token is
// present and otherwise lets the request through as anonymous.
func OptionalSessionMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		// invalid or expired token: carry on as anonymous
		if sessionID, err := parser.Parse(tokenString); err == nil {
			c.Set(SessionKey, sessionID)
		}

		c.Next()
	}
}
