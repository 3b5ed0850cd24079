package middleware

import (
	"strings"

	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/jwt"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Auth requires a valid bearer token whose role is at least minRoleID and
// stores its claims under reqctx.PayloadKey.
func Auth(minRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}
		if payload.RoleID < minRoleID {
			response.Fail(c, response.ErrForbidden)
			c.Abort()
			return
		}
		c.Set(reqctx.PayloadKey, payload)
		c.Next()
	}
}
