package httpapi

import (
	"strings"

	"github.com/dmitrijs2005/tillpoint/internal/common"
	"github.com/dmitrijs2005/tillpoint/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "role"
)

// authMiddleware validates the bearer token on every protected route and
// stores the caller's identity in the request context.
func authMiddleware(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AccessTokenHeaderName)
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(c, common.ErrInvalidToken)
			return
		}

		claims, err := auth.ParseToken(tokenString, secretKey)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, string(claims.Role))
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserIDKey)
}

func userRole(c *gin.Context) string {
	return c.GetString(ctxRoleKey)
}
