package model

const (
	RoleStudent = 0
	RoleTeacher = 1
	RoleAdmin   = 2
)

type LmsUser struct {
	Model
	LoginID  string `gorm:"type:varchar(64);uniqueIndex;not null" json:"login_id"`
	UserName string `gorm:"type:varchar(64);not null" json:"user_name"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"`
	CourseID uint   `gorm:"index;not null" json:"course_id"`
}
