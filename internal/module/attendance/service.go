package attendance

import (
	"context"
	"errors"
	"fmt"

	reqctx "attendance-lms/internal/global/context"
	"attendance-lms/internal/global/message"
	"attendance-lms/internal/global/sentry/tracing"
	"attendance-lms/internal/model"
)

// ErrInvalidForm is returned by Update for a row that cannot be stored:
// an unparsable date or time, or a date outside the user's course.
var ErrInvalidForm = errors.New("invalid attendance form")

// Service is everything the attendance screens need from the business layer.
type Service interface {
	// HasUnenteredAttendance reports whether a training day of the course
	// before today has no row for the user or a row missing a time.
	HasUnenteredAttendance(ctx context.Context, courseID, lmsUserID uint) (bool, error)
	GetAttendanceManagement(ctx context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, error)
	// PunchCheck returns a user-facing message when the transition is not
	// allowed, "" otherwise.
	PunchCheck(ctx context.Context, user reqctx.LoginUser, code PunchCode) (string, error)
	// SetPunchIn and SetPunchOut return a *PunchRejectedError when the
	// transition is no longer allowed at write time.
	SetPunchIn(ctx context.Context, user reqctx.LoginUser) (string, error)
	SetPunchOut(ctx context.Context, user reqctx.LoginUser) (string, error)
	SetAttendanceForm(ctx context.Context, user reqctx.LoginUser, list []AttendanceManagement) *AttendanceForm
	FillOptions(ctx context.Context, form *AttendanceForm)

	StartTimeCheck(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError
	EndTimeCheck(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError
	StartTimeIsNull(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError
	StartTimeAfterEndTime(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError
	OverBlankTime(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError

	Update(ctx context.Context, user reqctx.LoginUser, form *AttendanceForm) (string, error)
}

type StudentAttendanceService struct {
	store Store
	cache Cache
	util  *Util
}

func NewService(store Store, cache Cache, util *Util) *StudentAttendanceService {
	if cache == nil {
		cache = NopCache{}
	}
	return &StudentAttendanceService{store: store, cache: cache, util: util}
}

func (s *StudentAttendanceService) HasUnenteredAttendance(ctx context.Context, courseID, lmsUserID uint) (bool, error) {
	n, err := s.store.CountUnentered(ctx, courseID, lmsUserID, s.util.Today())
	if err != nil {
		return false, fmt.Errorf("count unentered attendance: %w", err)
	}
	return n > 0, nil
}

func (s *StudentAttendanceService) GetAttendanceManagement(ctx context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, error) {
	list, hit := s.cache.Get(ctx, courseID, lmsUserID)
	if !hit {
		var err error
		list, err = s.loadAttendanceManagement(ctx, courseID, lmsUserID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, courseID, lmsUserID, list); err != nil {
			log.Warn("write attendance cache", "error", err, "lms_user_id", lmsUserID)
		}
	}

	// display fields depend on the request locale and the date, never cached
	today := dateKey(s.util.Today())
	out := make([]AttendanceManagement, len(list))
	for i, row := range list {
		row.StatusDispName = StatusDispName(ctx, row.Status)
		row.BlankTimeValue = BlankTimeValue(ctx, row.BlankTime)
		row.IsToday = row.TrainingDate == today
		out[i] = row
	}
	return out, nil
}

func (s *StudentAttendanceService) loadAttendanceManagement(ctx context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, error) {
	days, err := s.store.ListCourseDays(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course days: %w", err)
	}
	atts, err := s.store.ListAttendance(ctx, lmsUserID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	byDate := make(map[string]model.StudentAttendance, len(atts))
	for _, a := range atts {
		byDate[dateKey(a.TrainingDate)] = a
	}

	list := make([]AttendanceManagement, 0, len(days))
	for _, d := range days {
		row := AttendanceManagement{
			LmsUserID:    lmsUserID,
			TrainingDate: dateKey(d.TrainingDate),
			SectionName:  d.SectionName,
		}
		if a, ok := byDate[row.TrainingDate]; ok {
			row.StudentAttendanceID = a.ID
			row.TrainingStartTime = a.TrainingStartTime
			row.TrainingEndTime = a.TrainingEndTime
			row.Status = a.Status
			row.BlankTime = a.BlankTime
			row.Note = a.Note
		}
		list = append(list, row)
	}
	return list, nil
}

// PunchRejectedError is returned by SetPunchIn and SetPunchOut when the
// stored row no longer allows the transition, e.g. a concurrent request
// punched first. Message is user-facing.
type PunchRejectedError struct {
	Message string
}

func (e *PunchRejectedError) Error() string {
	return "punch rejected: " + e.Message
}

func (s *StudentAttendanceService) PunchCheck(ctx context.Context, user reqctx.LoginUser, code PunchCode) (string, error) {
	if user.RoleID != model.RoleStudent {
		return message.Get(ctx, message.KeyAuthorization), nil
	}

	today := s.util.Today()
	workDay, err := s.store.IsTrainingDay(ctx, user.CourseID, today)
	if err != nil {
		return "", fmt.Errorf("check training day: %w", err)
	}
	if !workDay {
		return message.Get(ctx, message.KeyNotWorkDay), nil
	}

	att, err := s.store.FindAttendance(ctx, user.LmsUserID, today)
	if err != nil {
		return "", fmt.Errorf("find attendance: %w", err)
	}
	return s.transition(ctx, att, code)
}

// transition checks code against today's row, which may be nil or blank.
func (s *StudentAttendanceService) transition(ctx context.Context, att *model.StudentAttendance, code PunchCode) (string, error) {
	switch code {
	case PunchAtWork:
		if att != nil && att.TrainingStartTime != "" {
			return message.Get(ctx, message.KeyPunchInDuplicate), nil
		}
	case PunchLeaving:
		if att == nil || att.TrainingStartTime == "" {
			return message.Get(ctx, message.KeyPunchInEmpty), nil
		}
		if att.TrainingEndTime != "" {
			return message.Get(ctx, message.KeyPunchOutDuplicate), nil
		}
		start, err := ParseTrainingTime(att.TrainingStartTime)
		if err != nil {
			return "", err
		}
		now := TrainingTimeAt(s.util.Now())
		if start.Compare(now) > 0 {
			return message.Get(ctx, message.KeyTrainingTimeRange, start, now), nil
		}
	default:
		return "", fmt.Errorf("unknown punch code %d", code)
	}
	return "", nil
}

func (s *StudentAttendanceService) SetPunchIn(ctx context.Context, user reqctx.LoginUser) (string, error) {
	return s.punch(ctx, user, PunchAtWork, func(att *model.StudentAttendance, now TrainingTime) {
		att.TrainingStartTime = now.String()
	})
}

func (s *StudentAttendanceService) SetPunchOut(ctx context.Context, user reqctx.LoginUser) (string, error) {
	return s.punch(ctx, user, PunchLeaving, func(att *model.StudentAttendance, now TrainingTime) {
		att.TrainingEndTime = now.String()
	})
}

// punch re-checks the transition on the locked row before writing, so two
// requests that both passed PunchCheck cannot overwrite each other.
func (s *StudentAttendanceService) punch(ctx context.Context, user reqctx.LoginUser, code PunchCode, apply func(*model.StudentAttendance, TrainingTime)) (string, error) {
	today := s.util.Today()
	var saved model.StudentAttendance
	err := s.store.UpdateAttendance(ctx, user.LmsUserID, today, func(att *model.StudentAttendance) error {
		rejected, err := s.transition(ctx, att, code)
		if err != nil {
			return err
		}
		if rejected != "" {
			return &PunchRejectedError{Message: rejected}
		}

		apply(att, TrainingTimeAt(s.util.Now()))
		start, err := ParseTrainingTime(att.TrainingStartTime)
		if err != nil {
			return err
		}
		end, err := ParseTrainingTime(att.TrainingEndTime)
		if err != nil {
			return err
		}
		att.Status = s.util.Status(start, end)
		saved = *att
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("update attendance: %w", err)
	}
	s.invalidate(ctx, user)

	log.Info("punch recorded",
		"lms_user_id", user.LmsUserID,
		"training_date", dateKey(today),
		"start", saved.TrainingStartTime,
		"end", saved.TrainingEndTime,
	)
	return message.Get(ctx, message.KeyUpdateNotice), nil
}

func (s *StudentAttendanceService) SetAttendanceForm(ctx context.Context, user reqctx.LoginUser, list []AttendanceManagement) *AttendanceForm {
	form := &AttendanceForm{
		LmsUserID:      user.LmsUserID,
		UserName:       user.UserName,
		AttendanceList: make([]DailyAttendanceForm, 0, len(list)),
	}
	s.FillOptions(ctx, form)

	for _, row := range list {
		daily := DailyAttendanceForm{
			StudentAttendanceID: row.StudentAttendanceID,
			TrainingDate:        row.TrainingDate,
			SectionName:         row.SectionName,
			BlankTime:           row.BlankTime,
			Note:                row.Note,
			StatusDispName:      row.StatusDispName,
			IsToday:             row.IsToday,
		}
		// stored times were written by this service; a bad one shows as blank
		if start, err := ParseTrainingTime(row.TrainingStartTime); err == nil {
			daily.TrainingStartTimeHour, daily.TrainingStartTimeMinute = start.Parts()
		}
		if end, err := ParseTrainingTime(row.TrainingEndTime); err == nil {
			daily.TrainingEndTimeHour, daily.TrainingEndTimeMinute = end.Parts()
		}
		form.AttendanceList = append(form.AttendanceList, daily)
	}
	return form
}

// FillOptions sets the selectable hour, minute and blank time lists.
func (s *StudentAttendanceService) FillOptions(ctx context.Context, form *AttendanceForm) {
	form.HourMap = s.util.HourMap()
	form.MinuteMap = s.util.MinuteMap()
	form.BlankTimes = s.util.BlankTimes(ctx)
}

func (s *StudentAttendanceService) Update(ctx context.Context, user reqctx.LoginUser, form *AttendanceForm) (string, error) {
	span := tracing.StartSpanFromContext(ctx, "attendance.update", "manual attendance edit")
	defer tracing.Finish(span)

	days, err := s.store.ListCourseDays(ctx, user.CourseID)
	if err != nil {
		return "", fmt.Errorf("list course days: %w", err)
	}
	trainingDays := make(map[string]bool, len(days))
	for _, d := range days {
		trainingDays[dateKey(d.TrainingDate)] = true
	}

	existing, err := s.store.ListAttendance(ctx, user.LmsUserID)
	if err != nil {
		return "", fmt.Errorf("list attendance: %w", err)
	}
	byDate := make(map[string]*model.StudentAttendance, len(existing))
	for i := range existing {
		byDate[dateKey(existing[i].TrainingDate)] = &existing[i]
	}

	batch := make([]*model.StudentAttendance, 0, len(form.AttendanceList))
	for _, daily := range form.AttendanceList {
		date, err := ParseDate(daily.TrainingDate)
		if err != nil {
			return "", fmt.Errorf("%w: training date %q", ErrInvalidForm, daily.TrainingDate)
		}
		key := dateKey(date)
		if !trainingDays[key] {
			return "", fmt.Errorf("%w: %s", ErrInvalidForm, message.Get(ctx, message.KeyNotTrainingDate, key))
		}
		start, okStart := daily.startTime()
		end, okEnd := daily.endTime()
		if !okStart || !okEnd {
			return "", fmt.Errorf("%w: training time on %s", ErrInvalidForm, key)
		}

		att, ok := byDate[key]
		if !ok {
			att = &model.StudentAttendance{LmsUserID: user.LmsUserID, TrainingDate: date}
			byDate[key] = att
		}
		att.TrainingStartTime = start.String()
		att.TrainingEndTime = end.String()
		att.BlankTime = daily.BlankTime
		if att.BlankTime != nil && *att.BlankTime == 0 {
			att.BlankTime = nil
		}
		att.Note = daily.Note
		att.Status = s.util.Status(start, end)
		batch = append(batch, att)
	}

	if err := s.store.SaveAttendances(ctx, batch); err != nil {
		return "", fmt.Errorf("save attendance: %w", err)
	}
	s.invalidate(ctx, user)

	log.Info("attendance updated", "lms_user_id", user.LmsUserID, "rows", len(batch))
	return message.Get(ctx, message.KeyUpdateNotice), nil
}

func (s *StudentAttendanceService) invalidate(ctx context.Context, user reqctx.LoginUser) {
	if err := s.cache.Invalidate(ctx, user.CourseID, user.LmsUserID); err != nil {
		log.Error("invalidate attendance cache", "error", err, "lms_user_id", user.LmsUserID)
	}
}
