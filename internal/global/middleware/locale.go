package middleware

import (
	"attendance-lms/internal/global/message"

	"github.com/gin-gonic/gin"
)

// Locale stores the negotiated message locale in the request context.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := message.Match(c.GetHeader("Accept-Language"))
		c.Request = c.Request.WithContext(message.WithLocale(c.Request.Context(), tag))
		c.Next()
	}
}
