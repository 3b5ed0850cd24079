package attendance

import (
	"attendance-lms/internal/global/middleware"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (m *ModuleAttendance) InitRouter(r *gin.RouterGroup) {
	group := r.Group("/attendance")
	group.Use(middleware.Auth(0))
	{
		group.GET("/detail", m.controller.Index)
		group.POST("/detail", middleware.RateLimit(m.limiter), m.controller.dispatchPunch)

		group.GET("/update", m.controller.Update)
		group.POST("/update", m.controller.dispatchComplete)

		group.GET("/export", m.controller.Export)
	}
}

// dispatchPunch picks the handler by the punchIn or punchOut query flag.
func (ctl *Controller) dispatchPunch(c *gin.Context) {
	if _, ok := c.GetQuery("punchIn"); ok {
		ctl.PunchIn(c)
		return
	}
	if _, ok := c.GetQuery("punchOut"); ok {
		ctl.PunchOut(c)
		return
	}
	response.Fail(c, response.ErrInvalidRequest.WithTips("punchIn or punchOut required"))
}

func (ctl *Controller) dispatchComplete(c *gin.Context) {
	if _, ok := c.GetQuery("complete"); !ok {
		response.Fail(c, response.ErrInvalidRequest.WithTips("complete required"))
		return
	}
	ctl.Complete(c)
}
