package attendance

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of training dates.
const DateLayout = "2006-01-02"

// TrainingTime is a time of day with minute precision. The zero value is
// blank, i.e. not entered.
type TrainingTime struct {
	hour   int
	minute int
	set    bool
}

func NewTrainingTime(hour, minute int) TrainingTime {
	return TrainingTime{hour: hour, minute: minute, set: true}
}

// TrainingTimeAt truncates t to the minute.
func TrainingTimeAt(t time.Time) TrainingTime {
	return NewTrainingTime(t.Hour(), t.Minute())
}

// ParseTrainingTime parses "HH:mm". The empty string is a blank time.
func ParseTrainingTime(s string) (TrainingTime, error) {
	if s == "" {
		return TrainingTime{}, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TrainingTime{}, fmt.Errorf("parse training time %q: %w", s, err)
	}
	return TrainingTimeAt(t), nil
}

// trainingTimeFromParts builds a time from optional form fields. ok is false
// when only one part is given or a part is out of range.
func trainingTimeFromParts(hour, minute *int) (t TrainingTime, ok bool) {
	switch {
	case hour == nil && minute == nil:
		return TrainingTime{}, true
	case hour == nil || minute == nil:
		return TrainingTime{}, false
	case *hour < 0 || *hour > 23 || *minute < 0 || *minute > 59:
		return TrainingTime{}, false
	}
	return NewTrainingTime(*hour, *minute), true
}

func (t TrainingTime) IsBlank() bool { return !t.set }

func (t TrainingTime) Hour() int   { return t.hour }
func (t TrainingTime) Minute() int { return t.minute }

// Minutes since midnight.
func (t TrainingTime) Minutes() int {
	return t.hour*60 + t.minute
}

// Compare orders non-blank times; callers check IsBlank first.
func (t TrainingTime) Compare(o TrainingTime) int {
	switch d := t.Minutes() - o.Minutes(); {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Parts returns pointers suitable for the edit form, nil when blank.
func (t TrainingTime) Parts() (hour, minute *int) {
	if t.IsBlank() {
		return nil, nil
	}
	h, m := t.hour, t.minute
	return &h, &m
}

func (t TrainingTime) String() string {
	if t.IsBlank() {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
