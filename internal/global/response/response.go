package response

import (
	"errors"
	"fmt"
	"net/http"

	"attendance-lms/config"
	"attendance-lms/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

const CodeSuccess int32 = 200

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ViewBody is the payload of a screen: the view to render and its data.
type ViewBody struct {
	View  string `json:"view"`
	Model gin.H  `json:"model"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseBody{
		Code: CodeSuccess,
		Msg:  "success",
		Data: data,
	})
}

// View answers with the view identifier and its view-data map.
func View(c *gin.Context, view string, model gin.H) {
	if model == nil {
		model = gin.H{}
	}
	Success(c, ViewBody{View: view, Model: model})
}

func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}

	c.Set(ErrorContextKey, e)
	sentry.CaptureException(c, e)

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	c.JSON(http.StatusOK, body)
}

// NoRoute answers unknown paths with ErrNotFound inside the usual envelope.
func NoRoute(c *gin.Context) {
	Fail(c, ErrNotFound)
}

// Recovery turns a panic into ErrServerInternal. Deferred by middleware.Recovery.
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		var err error
		switch v := r.(type) {
		case error:
			err = v
		default:
			err = fmt.Errorf("%v", v)
		}
		Fail(c, ErrServerInternal.WithOrigin(err))
		c.Abort()
	}
}
