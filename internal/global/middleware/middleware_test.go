package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendance-lms/config"
	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/jwt"
	"attendance-lms/internal/global/message"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeDebug, JWT: config.JWT{AccessSecret: "secret", AccessExpire: 3600}})
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(0), func(c *gin.Context) {
		user, ok := reqctx.GetLoginUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.LmsUserID, "course": user.CourseID})
	})
	r.GET("/admin", Auth(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := jwt.GenerateToken(jwt.Claims{LmsUserID: 9, CourseID: 4})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.JSONEq(t, `{"id":9,"course":4}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Contains(t, w.Body.String(), `"code":419`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Contains(t, w.Body.String(), `"code":403`)
}

func TestLocale(t *testing.T) {
	r := gin.New()
	r.Use(Locale())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, message.Locale(c.Request.Context()).String())
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	r.ServeHTTP(w, req)
	require.Equal(t, language.English.String(), w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	require.True(t, rl.Allow("user:1"))
	require.True(t, rl.Allow("user:1"))
	require.False(t, rl.Allow("user:1"))
	require.True(t, rl.Allow("user:2"))

	now = now.Add(time.Second)
	require.True(t, rl.Allow("user:1"))

	now = now.Add(10 * time.Minute)
	rl.Allow("user:3")
	require.NotContains(t, rl.clients, "user:1")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, w.Body.String(), `"code":500`)
}
