package model

import "time"

// CourseSchedule marks TrainingDate as a training day of the course.
type CourseSchedule struct {
	Model
	CourseID     uint      `gorm:"uniqueIndex:idx_course_date;not null" json:"course_id"`
	TrainingDate time.Time `gorm:"type:date;uniqueIndex:idx_course_date;not null" json:"training_date"`
	SectionName  string    `gorm:"type:varchar(100)" json:"section_name"`
}
