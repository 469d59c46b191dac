package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"pairchat/domain"
	"pairchat/errors"
)

// SessionCookie is the http-only cookie carrying the session token.
const SessionCookie = "pairchat_session"

// userIDKey is the gin context key holding the authenticated identity.
const userIDKey = "auth_user_id"

// Middleware validates the session cookie and injects the caller's
// identity into the request context. Requests without a valid token never
// reach the handler.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			abortUnauthorized(c, "no token found")
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(errors.MapToHTTPStatus(errors.ErrUnauthorized),
		gin.H{"message": fmt.Sprintf("%s - %s", errors.ErrUnauthorized, reason)})
}

// UserID returns the identity stored by Middleware. Empty outside a
// protected route.
func UserID(c *gin.Context) domain.Identity {
	return domain.Identity(c.GetString(userIDKey))
}
