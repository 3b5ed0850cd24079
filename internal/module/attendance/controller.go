package attendance

import (
	"context"
	"errors"
	"log/slog"

	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/logger"
	"attendance-lms/internal/global/message"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
)

const (
	ViewDetail = "attendance/detail"
	ViewUpdate = "attendance/update"
)

// Controller serves the attendance screens. Every handler answers with a
// view identifier and its model; failures before rendering go through
// response.Fail.
type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// reqLog tags log lines with the caller's address.
func reqLog(c *gin.Context) *slog.Logger {
	return logger.WithContext(log, c)
}

func loginUser(c *gin.Context) (reqctx.LoginUser, bool) {
	user, ok := reqctx.GetLoginUser(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
	}
	return user, ok
}

// attachList puts the user's attendance list into model under
// attendance_management_list.
func (ctl *Controller) attachList(c *gin.Context, user reqctx.LoginUser, model gin.H) bool {
	list, err := ctl.service.GetAttendanceManagement(c.Request.Context(), user.CourseID, user.LmsUserID)
	if err != nil {
		reqLog(c).Error("get attendance list", "error", err, "lms_user_id", user.LmsUserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return false
	}
	model["attendance_management_list"] = list
	return true
}

// Index shows the attendance list with a warning when past days are
// missing punch times.
func (ctl *Controller) Index(c *gin.Context) {
	user, ok := loginUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	model := gin.H{}
	unentered, err := ctl.service.HasUnenteredAttendance(ctx, user.CourseID, user.LmsUserID)
	if err != nil {
		reqLog(c).Error("check unentered attendance", "error", err, "lms_user_id", user.LmsUserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if unentered {
		model["message"] = message.Get(ctx, message.KeyUnentered)
	}

	if !ctl.attachList(c, user, model) {
		return
	}
	response.View(c, ViewDetail, model)
}

func (ctl *Controller) PunchIn(c *gin.Context) {
	ctl.punch(c, PunchAtWork, ctl.service.SetPunchIn)
}

func (ctl *Controller) PunchOut(c *gin.Context) {
	ctl.punch(c, PunchLeaving, ctl.service.SetPunchOut)
}

func (ctl *Controller) punch(c *gin.Context, code PunchCode, set func(context.Context, reqctx.LoginUser) (string, error)) {
	user, ok := loginUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rejected, err := ctl.service.PunchCheck(ctx, user, code)
	if err != nil {
		reqLog(c).Error("punch check", "error", err, "lms_user_id", user.LmsUserID, "code", code)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	model := gin.H{"error": rejected}
	if rejected == "" {
		msg, err := set(ctx, user)
		var lost *PunchRejectedError
		switch {
		case errors.As(err, &lost):
			model["error"] = lost.Message
		case err != nil:
			reqLog(c).Error("record punch", "error", err, "lms_user_id", user.LmsUserID, "code", code)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		default:
			model["message"] = msg
		}
	}

	if !ctl.attachList(c, user, model) {
		return
	}
	response.View(c, ViewDetail, model)
}

// Update shows the manual edit form prefilled with the current list.
func (ctl *Controller) Update(c *gin.Context) {
	user, ok := loginUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := ctl.service.GetAttendanceManagement(ctx, user.CourseID, user.LmsUserID)
	if err != nil {
		reqLog(c).Error("get attendance list", "error", err, "lms_user_id", user.LmsUserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.View(c, ViewUpdate, gin.H{
		"attendance_form":        ctl.service.SetAttendanceForm(ctx, user, list),
		"update_confirm_message": message.Get(ctx, message.KeyDialogUpdateConfirm),
	})
}

// Complete validates and stores the manual edit form. Any field error
// re-renders the edit view and nothing is stored.
func (ctl *Controller) Complete(c *gin.Context) {
	user, ok := loginUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var form AttendanceForm
	var result ValidationResult
	if err := c.ShouldBindJSON(&form); err != nil {
		errs, isValidation := bindingFieldErrors(ctx, err)
		if !isValidation {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
		result.Add(errs...)
	}
	form.LmsUserID = user.LmsUserID
	form.UserName = user.UserName

	for i, daily := range form.AttendanceList {
		result.Add(ctl.service.StartTimeCheck(ctx, i, daily)...)
		result.Add(ctl.service.EndTimeCheck(ctx, i, daily)...)
		result.Add(ctl.service.StartTimeIsNull(ctx, i, daily)...)
		result.Add(ctl.service.StartTimeAfterEndTime(ctx, i, daily)...)
		result.Add(ctl.service.OverBlankTime(ctx, i, daily)...)
	}

	if result.HasErrors() {
		ctl.service.FillOptions(ctx, &form)
		response.View(c, ViewUpdate, gin.H{
			"attendance_form":        &form,
			"update_confirm_message": message.Get(ctx, message.KeyDialogUpdateConfirm),
			"errors":                 result.Errors,
		})
		return
	}

	msg, err := ctl.service.Update(ctx, user, &form)
	if err != nil {
		if errors.Is(err, ErrInvalidForm) {
			response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
			return
		}
		reqLog(c).Error("update attendance", "error", err, "lms_user_id", user.LmsUserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	model := gin.H{"message": msg}
	if !ctl.attachList(c, user, model) {
		return
	}
	response.View(c, ViewDetail, model)
}
