package attendance

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"attendance-lms/config"
	"attendance-lms/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(&config.Config{Mode: config.ModeDebug})
	registerValidations()
}

var _ Store = (*memStore)(nil)

// memStore is an in-memory Store keyed by user and calendar day.
type memStore struct {
	mu     sync.Mutex
	days   map[uint][]model.CourseSchedule
	atts   map[uint]map[string]model.StudentAttendance
	nextID uint
	saves  int
	err    error

	// beforeUpdate runs inside UpdateAttendance before the row is read,
	// standing in for a request that commits first.
	beforeUpdate func()
}

func newMemStore() *memStore {
	return &memStore{
		days: make(map[uint][]model.CourseSchedule),
		atts: make(map[uint]map[string]model.StudentAttendance),
	}
}

func (s *memStore) addDay(t *testing.T, courseID uint, date, section string) {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	s.days[courseID] = append(s.days[courseID], model.CourseSchedule{CourseID: courseID, TrainingDate: d, SectionName: section})
}

func (s *memStore) addAttendance(t *testing.T, lmsUserID uint, date, start, end string) {
	t.Helper()
	d, err := ParseDate(date)
	require.NoError(t, err)
	row := &model.StudentAttendance{
		LmsUserID:         lmsUserID,
		TrainingDate:      d,
		TrainingStartTime: start,
		TrainingEndTime:   end,
	}
	if old := s.row(lmsUserID, date); old != nil {
		row.ID = old.ID
	}
	require.NoError(t, s.SaveAttendances(context.Background(), []*model.StudentAttendance{row}))
	s.saves = 0
}

// row returns the stored row for date, or nil.
func (s *memStore) row(lmsUserID uint, date string) *model.StudentAttendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.atts[lmsUserID][date]
	if !ok {
		return nil
	}
	return &a
}

func (s *memStore) ListCourseDays(_ context.Context, courseID uint) ([]model.CourseSchedule, error) {
	if s.err != nil {
		return nil, s.err
	}
	days := append([]model.CourseSchedule(nil), s.days[courseID]...)
	sort.Slice(days, func(i, j int) bool { return days[i].TrainingDate.Before(days[j].TrainingDate) })
	return days, nil
}

func (s *memStore) IsTrainingDay(_ context.Context, courseID uint, date time.Time) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, d := range s.days[courseID] {
		if d.TrainingDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) FindAttendance(_ context.Context, lmsUserID uint, date time.Time) (*model.StudentAttendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.row(lmsUserID, dateKey(date)), nil
}

func (s *memStore) ListAttendance(_ context.Context, lmsUserID uint) ([]model.StudentAttendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StudentAttendance, 0, len(s.atts[lmsUserID]))
	for _, a := range s.atts[lmsUserID] {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrainingDate.Before(out[j].TrainingDate) })
	return out, nil
}

func (s *memStore) SaveAttendances(_ context.Context, atts []*model.StudentAttendance) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range atts {
		if a.ID == 0 {
			s.nextID++
			a.ID = s.nextID
		}
		if s.atts[a.LmsUserID] == nil {
			s.atts[a.LmsUserID] = make(map[string]model.StudentAttendance)
		}
		s.atts[a.LmsUserID][dateKey(a.TrainingDate)] = *a
	}
	s.saves++
	return nil
}

func (s *memStore) UpdateAttendance(_ context.Context, lmsUserID uint, date time.Time, fn func(att *model.StudentAttendance) error) error {
	if s.err != nil {
		return s.err
	}
	if s.beforeUpdate != nil {
		s.beforeUpdate()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	att, ok := s.atts[lmsUserID][dateKey(date)]
	if !ok {
		att = model.StudentAttendance{LmsUserID: lmsUserID, TrainingDate: date}
	}
	if err := fn(&att); err != nil {
		return err
	}
	if att.ID == 0 {
		s.nextID++
		att.ID = s.nextID
	}
	if s.atts[lmsUserID] == nil {
		s.atts[lmsUserID] = make(map[string]model.StudentAttendance)
	}
	s.atts[lmsUserID][dateKey(date)] = att
	s.saves++
	return nil
}

func (s *memStore) CountUnentered(_ context.Context, courseID, lmsUserID uint, before time.Time) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, d := range s.days[courseID] {
		if !d.TrainingDate.Before(before) {
			continue
		}
		a, ok := s.atts[lmsUserID][dateKey(d.TrainingDate)]
		if !ok || a.TrainingStartTime == "" || a.TrainingEndTime == "" {
			n++
		}
	}
	return n, nil
}

// memCache keeps lists in a map and counts hits.
type memCache struct {
	lists map[string][]AttendanceManagement
	hits  int
}

func newMemCache() *memCache {
	return &memCache{lists: make(map[string][]AttendanceManagement)}
}

func (c *memCache) Get(_ context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, bool) {
	list, ok := c.lists[cacheKey(courseID, lmsUserID)]
	if ok {
		c.hits++
	}
	return list, ok
}

func (c *memCache) Set(_ context.Context, courseID, lmsUserID uint, list []AttendanceManagement) error {
	c.lists[cacheKey(courseID, lmsUserID)] = list
	return nil
}

func (c *memCache) Invalidate(_ context.Context, courseID, lmsUserID uint) error {
	delete(c.lists, cacheKey(courseID, lmsUserID))
	return nil
}

var errStoreDown = errors.New("store down")

// newTestUtil returns a Util for a 09:00-18:00 day whose clock reads now,
// given as "2006-01-02 15:04" in Asia/Tokyo.
func newTestUtil(t *testing.T, now string) *Util {
	t.Helper()
	u, err := NewUtil(config.Attendance{Timezone: "Asia/Tokyo", StartTime: "09:00", EndTime: "18:00"})
	require.NoError(t, err)
	at, err := time.ParseInLocation("2006-01-02 15:04", now, u.loc)
	require.NoError(t, err)
	u.now = func() time.Time { return at }
	return u
}

func intPtr(i int) *int { return &i }
