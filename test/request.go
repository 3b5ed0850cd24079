package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/jwt"
	"attendance-lms/internal/global/message"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request describes one handler call. Body is sent as JSON, a string is
// sent as is. Claims, when set, is stored as the authenticated payload.
// AcceptLanguage is negotiated the way middleware.Locale does.
type Request struct {
	Method         string
	Target         string
	Body           any
	Claims         *jwt.Claims
	AcceptLanguage string
}

// Do runs handlerFunc on a fresh test context.
func Do(t *testing.T, handlerFunc gin.HandlerFunc, req Request) *httptest.ResponseRecorder {
	t.Helper()
	if req.Method == "" {
		req.Method = http.MethodPost
	}
	if req.Target == "" {
		req.Target = "/test"
	}

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(req.Method, req.Target, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request = c.Request.WithContext(message.WithLocale(c.Request.Context(), message.Match(req.AcceptLanguage)))
	if req.Claims != nil {
		c.Set(reqctx.PayloadKey, req.Claims)
	}
	handlerFunc(c)
	return w
}

func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any) (resp response.ResponseBody) {
	return Decode(t, Do(t, handlerFunc, Request{Body: request}))
}

func Decode(t *testing.T, w *httptest.ResponseRecorder) (resp response.ResponseBody) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}
