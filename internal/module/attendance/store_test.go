package attendance

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"attendance-lms/internal/global/database"
	"attendance-lms/internal/model"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// openTestDB connects to LMS_TEST_MYSQL_DSN and empties the attendance
// tables. The DSN must use parseTime=True&loc=Local.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("LMS_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("LMS_TEST_MYSQL_DSN not set")
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	for _, m := range []any{&model.StudentAttendance{}, &model.CourseSchedule{}} {
		require.NoError(t, db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error)
	}
	return db
}

func TestGormStore(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()

	d8, _ := ParseDate("2026-04-08")
	d9, _ := ParseDate("2026-04-09")
	d10, _ := ParseDate("2026-04-10")
	require.NoError(t, db.Create(&[]model.CourseSchedule{
		{CourseID: 1, TrainingDate: d10, SectionName: "HTTP"},
		{CourseID: 1, TrainingDate: d8, SectionName: "Go basics"},
		{CourseID: 2, TrainingDate: d9, SectionName: "Other"},
	}).Error)

	days, err := store.ListCourseDays(ctx, 1)
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Equal(t, "2026-04-08", dateKey(days[0].TrainingDate))

	ok, err := store.IsTrainingDay(ctx, 1, d10)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = store.IsTrainingDay(ctx, 1, d9)
	require.NoError(t, err)
	require.False(t, ok)

	att, err := store.FindAttendance(ctx, 7, d8)
	require.NoError(t, err)
	require.Nil(t, att)

	// d8 has no row yet; d9 belongs to another course
	n, err := store.CountUnentered(ctx, 1, 7, d10)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, store.SaveAttendances(ctx, []*model.StudentAttendance{
		{LmsUserID: 7, TrainingDate: d8, TrainingStartTime: "09:00"},
		{LmsUserID: 7, TrainingDate: d9, TrainingStartTime: "09:00", TrainingEndTime: "18:00"},
		{LmsUserID: 7, TrainingDate: d10, TrainingStartTime: "09:00"},
	}))

	n, err = store.CountUnentered(ctx, 1, 7, d10)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	att, err = store.FindAttendance(ctx, 7, d8)
	require.NoError(t, err)
	require.NotNil(t, att)
	att.TrainingEndTime = "17:00"
	require.NoError(t, store.SaveAttendances(ctx, []*model.StudentAttendance{att}))

	n, err = store.CountUnentered(ctx, 1, 7, d10)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = store.CountUnentered(ctx, 1, 8, d10)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	atts, err := store.ListAttendance(ctx, 7)
	require.NoError(t, err)
	require.Len(t, atts, 3)
	require.Equal(t, "17:00", atts[0].TrainingEndTime)
}

func TestGormStoreSaveAttendancesIsAtomic(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	d8, _ := ParseDate("2026-04-08")

	// the second row violates the user/date unique index
	err := store.SaveAttendances(ctx, []*model.StudentAttendance{
		{LmsUserID: 9, TrainingDate: d8, TrainingStartTime: "09:00"},
		{LmsUserID: 9, TrainingDate: d8, TrainingStartTime: "10:00"},
	})
	require.Error(t, err)

	atts, err := store.ListAttendance(ctx, 9)
	require.NoError(t, err)
	require.Empty(t, atts)
}

func TestGormStoreUpdateAttendanceSerializesWriters(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	d10, _ := ParseDate("2026-04-10")
	errTaken := errors.New("start already set")

	starts := []string{"09:00", "09:07", "09:11", "09:15"}
	errs := make([]error, len(starts))
	var wg sync.WaitGroup
	for i, start := range starts {
		wg.Add(1)
		go func(i int, start string) {
			defer wg.Done()
			errs[i] = store.UpdateAttendance(ctx, 11, d10, func(att *model.StudentAttendance) error {
				if att.TrainingStartTime != "" {
					return errTaken
				}
				att.TrainingStartTime = start
				return nil
			})
		}(i, start)
	}
	wg.Wait()

	var won string
	for i, err := range errs {
		if err == nil {
			require.Empty(t, won, "two writers both set the start")
			won = starts[i]
			continue
		}
		require.ErrorIs(t, err, errTaken)
	}
	require.NotEmpty(t, won)

	att, err := store.FindAttendance(ctx, 11, d10)
	require.NoError(t, err)
	require.Equal(t, won, att.TrainingStartTime)
}

func TestGormStoreUpdateAttendanceRollsBack(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ctx := context.Background()
	d10, _ := ParseDate("2026-04-10")

	errRejected := errors.New("rejected")
	err := store.UpdateAttendance(ctx, 12, d10, func(att *model.StudentAttendance) error {
		att.TrainingStartTime = "09:00"
		return errRejected
	})
	require.ErrorIs(t, err, errRejected)

	att, err := store.FindAttendance(ctx, 12, d10)
	require.NoError(t, err)
	require.Nil(t, att)
}

func TestIsDeadlock(t *testing.T) {
	require.True(t, isDeadlock(&mysqldriver.MySQLError{Number: 1213}))
	require.True(t, isDeadlock(fmt.Errorf("commit: %w", &mysqldriver.MySQLError{Number: 1213})))
	require.False(t, isDeadlock(&mysqldriver.MySQLError{Number: 1062}))
	require.False(t, isDeadlock(errors.New("deadlock")))
	require.False(t, isDeadlock(nil))
}
