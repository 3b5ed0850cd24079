package context

import (
	"attendance-lms/internal/global/jwt"

	"github.com/gin-gonic/gin"
)

const PayloadKey = "payload"

// LoginUser is the per-request identity of the caller, built from the
// token by middleware.Auth.
type LoginUser struct {
	LmsUserID uint
	CourseID  uint
	RoleID    int
	UserName  string
}

func GetUserPayload(c *gin.Context) (userPayload *jwt.Claims, exist bool) {
	payload, _ := c.Get(PayloadKey)
	userPayload, exist = payload.(*jwt.Claims)
	return
}

func GetLoginUser(c *gin.Context) (LoginUser, bool) {
	p, ok := GetUserPayload(c)
	if !ok || p == nil {
		return LoginUser{}, false
	}
	return LoginUser{
		LmsUserID: p.LmsUserID,
		CourseID:  p.CourseID,
		RoleID:    p.RoleID,
		UserName:  p.UserName,
	}, true
}
