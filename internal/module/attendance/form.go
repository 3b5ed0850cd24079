package attendance

import "fmt"

// PunchCode selects the transition checked by PunchCheck.
type PunchCode int

const (
	PunchAtWork  PunchCode = 1
	PunchLeaving PunchCode = 2
)

type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// AttendanceManagement is one training day of the course with the user's
// attendance merged in.
type AttendanceManagement struct {
	StudentAttendanceID uint   `json:"student_attendance_id" excel:"-"`
	LmsUserID           uint   `json:"lms_user_id" excel:"-"`
	TrainingDate        string `json:"training_date" excel:"Date"`
	SectionName         string `json:"section_name" excel:"Section"`
	TrainingStartTime   string `json:"training_start_time" excel:"Start"`
	TrainingEndTime     string `json:"training_end_time" excel:"End"`
	Status              int    `json:"status" excel:"-"`
	StatusDispName      string `json:"status_disp_name" excel:"Status"`
	BlankTime           *int   `json:"blank_time" excel:"-"`
	BlankTimeValue      string `json:"blank_time_value" excel:"Blank time"`
	Note                string `json:"note" excel:"Note"`
	IsToday             bool   `json:"is_today" excel:"-"`
}

type AttendanceForm struct {
	LmsUserID      uint                  `json:"lms_user_id"`
	UserName       string                `json:"user_name"`
	AttendanceList []DailyAttendanceForm `json:"attendance_list" binding:"dive"`
	HourMap        []Option              `json:"hour_map"`
	MinuteMap      []Option              `json:"minute_map"`
	BlankTimes     []Option              `json:"blank_times"`
}

// DailyAttendanceForm is one editable row. Times are split into optional
// hour and minute selections; both nil means not entered.
type DailyAttendanceForm struct {
	StudentAttendanceID     uint   `json:"student_attendance_id"`
	TrainingDate            string `json:"training_date" binding:"required,trainingdate"`
	SectionName             string `json:"section_name"`
	TrainingStartTimeHour   *int   `json:"training_start_time_hour"`
	TrainingStartTimeMinute *int   `json:"training_start_time_minute"`
	TrainingEndTimeHour     *int   `json:"training_end_time_hour"`
	TrainingEndTimeMinute   *int   `json:"training_end_time_minute"`
	BlankTime               *int   `json:"blank_time" binding:"omitempty,min=0"`
	Note                    string `json:"note" binding:"max=100"`
	StatusDispName          string `json:"status_disp_name"`
	IsToday                 bool   `json:"is_today"`
}

func (d DailyAttendanceForm) startTime() (TrainingTime, bool) {
	return trainingTimeFromParts(d.TrainingStartTimeHour, d.TrainingStartTimeMinute)
}

func (d DailyAttendanceForm) endTime() (TrainingTime, bool) {
	return trainingTimeFromParts(d.TrainingEndTimeHour, d.TrainingEndTimeMinute)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult collects field errors across every row of a form.
type ValidationResult struct {
	Errors []FieldError `json:"errors"`
}

func (r *ValidationResult) Add(errs ...FieldError) {
	r.Errors = append(r.Errors, errs...)
}

func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasField reports whether any error targets field.
func (r *ValidationResult) HasField(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

func rowField(index int, name string) string {
	return fmt.Sprintf("attendance_list[%d].%s", index, name)
}
