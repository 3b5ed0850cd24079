package model

import "time"

// Attendance status codes.
const (
	StatusNone                 = 0
	StatusTardy                = 1
	StatusLeavingEarly         = 2
	StatusTardyAndLeavingEarly = 3
)

// StudentAttendance is one user's attendance on one training day. Start and
// end times are "HH:mm", empty when not entered.
type StudentAttendance struct {
	Model
	LmsUserID         uint      `gorm:"uniqueIndex:idx_user_date;not null" json:"lms_user_id"`
	TrainingDate      time.Time `gorm:"type:date;uniqueIndex:idx_user_date;not null" json:"training_date"`
	TrainingStartTime string    `gorm:"type:varchar(5);not null;default:''" json:"training_start_time"`
	TrainingEndTime   string    `gorm:"type:varchar(5);not null;default:''" json:"training_end_time"`
	Status            int       `gorm:"not null;default:0" json:"status"`
	BlankTime         *int      `json:"blank_time"` // minutes
	Note              string    `gorm:"type:varchar(100);not null;default:''" json:"note"`
}
