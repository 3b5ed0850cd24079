package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	reqctx "attendance-lms/internal/global/context"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const maxResponseLogSize = 10 * 1024

// responseBodyWriter keeps the first maxResponseLogSize bytes of the body.
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxResponseLogSize {
		remaining := maxResponseLogSize - w.body.Len()
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger logs one line per request. JSON response bodies are included up to
// maxResponseLogSize; file downloads are not.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		blw := &responseBodyWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = blw

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if user, ok := reqctx.GetLoginUser(c); ok {
			attrs = append(attrs, "lms_user_id", user.LmsUserID)
		}
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			body := blw.body.String()
			if blw.body.Len() >= maxResponseLogSize {
				body += "...(truncated)"
			}
			attrs = append(attrs, "response_body", body)
		}

		log.Info("HTTP Request", attrs...)
	}
}

// SentryEnrichIP tags the request's Sentry scope with the client IP. Must
// run after sentry.Middleware.
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()

				scope.SetUser(sentrylib.User{
					IPAddress: clientIP,
				})

				scope.SetTag("client_ip", clientIP)

				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
				if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
					scope.SetTag("x_real_ip", realIP)
				}
			})
		}
		c.Next()
	}
}
