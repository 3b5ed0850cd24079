package attendance

import (
	"context"
	"errors"
	"time"

	"attendance-lms/internal/model"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence used by StudentAttendanceService. Dates are
// calendar days at midnight time.Local.
type Store interface {
	ListCourseDays(ctx context.Context, courseID uint) ([]model.CourseSchedule, error)
	IsTrainingDay(ctx context.Context, courseID uint, date time.Time) (bool, error)
	// FindAttendance returns nil, nil when the user has no row for date.
	FindAttendance(ctx context.Context, lmsUserID uint, date time.Time) (*model.StudentAttendance, error)
	ListAttendance(ctx context.Context, lmsUserID uint) ([]model.StudentAttendance, error)
	// UpdateAttendance runs fn on the user's row for date while holding a
	// row lock, creating a blank row if there is none, and stores the result.
	// An error from fn discards the change and is returned as is.
	UpdateAttendance(ctx context.Context, lmsUserID uint, date time.Time, fn func(att *model.StudentAttendance) error) error
	// SaveAttendances writes all rows or none.
	SaveAttendances(ctx context.Context, atts []*model.StudentAttendance) error
	// CountUnentered counts the course's training days before the given day
	// on which the user has no row, or a row lacking a start or an end time.
	CountUnentered(ctx context.Context, courseID, lmsUserID uint, before time.Time) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListCourseDays(ctx context.Context, courseID uint) ([]model.CourseSchedule, error) {
	var days []model.CourseSchedule
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("training_date").
		Find(&days).Error
	return days, err
}

func (s *GormStore) IsTrainingDay(ctx context.Context, courseID uint, date time.Time) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.CourseSchedule{}).
		Where("course_id = ? AND training_date = ?", courseID, date).
		Count(&n).Error
	return n > 0, err
}

func (s *GormStore) FindAttendance(ctx context.Context, lmsUserID uint, date time.Time) (*model.StudentAttendance, error) {
	var att model.StudentAttendance
	err := s.db.WithContext(ctx).
		Where("lms_user_id = ? AND training_date = ?", lmsUserID, date).
		First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (s *GormStore) ListAttendance(ctx context.Context, lmsUserID uint) ([]model.StudentAttendance, error) {
	var atts []model.StudentAttendance
	err := s.db.WithContext(ctx).
		Where("lms_user_id = ?", lmsUserID).
		Order("training_date").
		Find(&atts).Error
	return atts, err
}

// updateAttempts bounds retries after MySQL picks the transaction as a
// deadlock victim, which concurrent first inserts of the same day can cause.
const updateAttempts = 3

func (s *GormStore) UpdateAttendance(ctx context.Context, lmsUserID uint, date time.Time, fn func(att *model.StudentAttendance) error) error {
	var err error
	for i := 0; i < updateAttempts; i++ {
		if err = s.updateAttendance(ctx, lmsUserID, date, fn); !isDeadlock(err) {
			return err
		}
	}
	return err
}

func (s *GormStore) updateAttendance(ctx context.Context, lmsUserID uint, date time.Time, fn func(att *model.StudentAttendance) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// insert a blank row first so the locking read below always takes a
		// record lock instead of a gap lock
		seed := model.StudentAttendance{LmsUserID: lmsUserID, TrainingDate: date}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var att model.StudentAttendance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("lms_user_id = ? AND training_date = ?", lmsUserID, date).
			First(&att).Error
		if err != nil {
			return err
		}
		if err := fn(&att); err != nil {
			return err
		}
		return tx.Save(&att).Error
	})
}

func isDeadlock(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1213
}

func (s *GormStore) SaveAttendances(ctx context.Context, atts []*model.StudentAttendance) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, att := range atts {
			if err := tx.Save(att).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) CountUnentered(ctx context.Context, courseID, lmsUserID uint, before time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.CourseSchedule{}).
		Joins("LEFT JOIN student_attendance sa ON sa.training_date = course_schedule.training_date"+
			" AND sa.lms_user_id = ? AND sa.deleted_at IS NULL", lmsUserID).
		Where("course_schedule.course_id = ? AND course_schedule.training_date < ?", courseID, before).
		Where("(sa.id IS NULL OR sa.training_start_time = '' OR sa.training_end_time = '')").
		Count(&n).Error
	return n, err
}
