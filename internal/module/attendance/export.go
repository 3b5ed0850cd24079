package attendance

import (
	"attendance-lms/internal/global/response"
	"attendance-lms/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Attendance"

// Export streams the user's attendance list as attendance.xlsx.
func (ctl *Controller) Export(c *gin.Context) {
	user, ok := loginUser(c)
	if !ok {
		return
	}

	list, err := ctl.service.GetAttendanceManagement(c.Request.Context(), user.CourseID, user.LmsUserID)
	if err != nil {
		reqLog(c).Error("get attendance list", "error", err, "lms_user_id", user.LmsUserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("close workbook", "error", err)
		}
	}()

	if err := tools.ExportToExcel(f, exportSheet, list); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	tools.SetAttachment(c, "attendance.xlsx", tools.ExcelContentType)
	if err := f.Write(c.Writer); err != nil {
		reqLog(c).Error("write workbook", "error", err, "lms_user_id", user.LmsUserID)
	}
}
