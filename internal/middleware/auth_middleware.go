package middleware

import (
	"strings"

	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/apperror"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/pkg/response"
	"github.com/enyasystem/ecommerce-mobile-catalog/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the validated session id.
const SessionKey = "session_id"

// TokenParser resolves a bearer token to a session id.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionMiddleware requires a valid session token, taken from the
// access_token cookie or an Authorization: Bearer header.
func SessionMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get token
		tokenString := extractToken(c)
		if tokenString == "" {
			abortWith(c, session.ErrUnauthorized)
			return
		}

		// 2. Parse & validate
		sessionID, err := parser.Parse(tokenString)
		if err != nil {
			abortWith(c, err)
			return
		}

		// 3. Set validated value
		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
