package attendance

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"attendance-lms/config"
	"attendance-lms/internal/global/message"
	"attendance-lms/internal/model"
)

const (
	blankTimeStep = 15
	blankTimeMax  = 480 // exclusive
)

// Util holds the training schedule and clock shared by the controller and
// the service.
type Util struct {
	loc            *time.Location
	scheduledStart TrainingTime
	scheduledEnd   TrainingTime
	now            func() time.Time
}

func NewUtil(cfg config.Attendance) (*Util, error) {
	tz := cfg.Timezone
	if tz == "" {
		tz = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	start, err := ParseTrainingTime(cfg.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseTrainingTime(cfg.EndTime)
	if err != nil {
		return nil, err
	}
	return &Util{
		loc:            loc,
		scheduledStart: start,
		scheduledEnd:   end,
		now:            time.Now,
	}, nil
}

// Now is the current time in the training timezone.
func (u *Util) Now() time.Time {
	return u.now().In(u.loc)
}

// Today is the current training date, as midnight in time.Local so that
// the MySQL driver stores the intended calendar day.
func (u *Util) Today() time.Time {
	d, _ := ParseDate(u.Now().Format(DateLayout))
	return d
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

func dateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// Status derives the attendance status from the recorded times. A blank
// time never counts against the student.
func (u *Util) Status(start, end TrainingTime) int {
	tardy := !start.IsBlank() && !u.scheduledStart.IsBlank() && start.Compare(u.scheduledStart) > 0
	early := !end.IsBlank() && !u.scheduledEnd.IsBlank() && end.Compare(u.scheduledEnd) < 0
	switch {
	case tardy && early:
		return model.StatusTardyAndLeavingEarly
	case tardy:
		return model.StatusTardy
	case early:
		return model.StatusLeavingEarly
	}
	return model.StatusNone
}

func StatusDispName(ctx context.Context, status int) string {
	switch status {
	case model.StatusTardy:
		return message.Get(ctx, message.KeyStatusTardy)
	case model.StatusLeavingEarly:
		return message.Get(ctx, message.KeyStatusLeavingEarly)
	case model.StatusTardyAndLeavingEarly:
		return message.Get(ctx, message.KeyStatusTardyAndLeavingEarly)
	}
	return ""
}

func (u *Util) HourMap() []Option {
	return numberOptions(24)
}

func (u *Util) MinuteMap() []Option {
	return numberOptions(60)
}

func numberOptions(n int) []Option {
	opts := make([]Option, n)
	for i := range opts {
		opts[i] = Option{Value: i, Label: fmt.Sprintf("%02d", i)}
	}
	return opts
}

// BlankTimes lists the selectable blank times in 15 minute steps.
func (u *Util) BlankTimes(ctx context.Context) []Option {
	opts := make([]Option, 0, blankTimeMax/blankTimeStep)
	for m := blankTimeStep; m < blankTimeMax; m += blankTimeStep {
		opts = append(opts, Option{Value: m, Label: BlankTimeValue(ctx, &m)})
	}
	return opts
}

// BlankTimeValue formats minutes for display, "" when not entered.
func BlankTimeValue(ctx context.Context, minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return ""
	}
	h, m := *minutes/60, *minutes%60
	switch {
	case h == 0:
		return message.Get(ctx, message.KeyTimeMinutes, h, m)
	case m == 0:
		return message.Get(ctx, message.KeyTimeHours, h, m)
	}
	return message.Get(ctx, message.KeyTimeHoursMinutes, h, m)
}
