package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/knagano/todolist-api/internal/constants"
	apierrors "github.com/knagano/todolist-api/internal/errors"
	"github.com/knagano/todolist-api/internal/token"
)

// RequireAuth verifies the session credential carried in the http-only
// cookie and stores the account id in the request context. Missing,
// malformed, and expired credentials are all rejected the same way.
func RequireAuth(tokens *token.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, err := c.Cookie(cookieName)
		if err != nil || credential == "" {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(credential)
		if err != nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
