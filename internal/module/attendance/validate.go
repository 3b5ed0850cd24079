package attendance

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"attendance-lms/internal/global/message"
	"attendance-lms/tools"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// registerValidations adds the trainingdate tag and reports fields by their
// json names. Safe to call more than once.
func registerValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		tools.PanicOnErr(v.RegisterValidation("trainingdate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		}))
	})
}

var fieldLabels = map[string]string{
	"training_date": message.KeyLabelTrainingDate,
	"blank_time":    message.KeyLabelBlankTime,
	"note":          message.KeyLabelNote,
}

// bindingFieldErrors converts binding validation failures into field errors.
// ok is false when err is not a validation failure (e.g. malformed JSON).
func bindingFieldErrors(ctx context.Context, err error) (errs []FieldError, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		label := fe.Field()
		if key, found := fieldLabels[fe.Field()]; found {
			label = message.Get(ctx, key)
		}
		errs = append(errs, FieldError{
			Field:   field,
			Message: message.Get(ctx, message.KeyInputInvalid, label),
		})
	}
	return errs, true
}

// StartTimeCheck flags a start time with only one of hour and minute, or
// with a part out of range.
func (s *StudentAttendanceService) StartTimeCheck(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError {
	if _, ok := daily.startTime(); ok {
		return nil
	}
	return []FieldError{{
		Field:   rowField(index, "training_start_time"),
		Message: message.Get(ctx, message.KeyInputInvalid, message.Get(ctx, message.KeyLabelStartTime)),
	}}
}

func (s *StudentAttendanceService) EndTimeCheck(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError {
	if _, ok := daily.endTime(); ok {
		return nil
	}
	return []FieldError{{
		Field:   rowField(index, "training_end_time"),
		Message: message.Get(ctx, message.KeyInputInvalid, message.Get(ctx, message.KeyLabelEndTime)),
	}}
}

// StartTimeIsNull flags an end time entered without a start time.
func (s *StudentAttendanceService) StartTimeIsNull(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError {
	start, okStart := daily.startTime()
	end, okEnd := daily.endTime()
	if !okStart || !okEnd || !start.IsBlank() || end.IsBlank() {
		return nil
	}
	return []FieldError{{
		Field:   rowField(index, "training_start_time"),
		Message: message.Get(ctx, message.KeyPunchInEmpty),
	}}
}

func (s *StudentAttendanceService) StartTimeAfterEndTime(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError {
	start, end, ok := completeTimes(daily)
	if !ok || start.Compare(end) <= 0 {
		return nil
	}
	return []FieldError{{
		Field:   rowField(index, "training_end_time"),
		Message: message.Get(ctx, message.KeyTrainingTimeRange, start, end),
	}}
}

// OverBlankTime flags a blank time longer than the time between start and end.
func (s *StudentAttendanceService) OverBlankTime(ctx context.Context, index int, daily DailyAttendanceForm) []FieldError {
	if daily.BlankTime == nil || *daily.BlankTime <= 0 {
		return nil
	}
	start, end, ok := completeTimes(daily)
	if !ok || start.Compare(end) > 0 {
		return nil
	}
	if *daily.BlankTime <= end.Minutes()-start.Minutes() {
		return nil
	}
	return []FieldError{{
		Field:   rowField(index, "blank_time"),
		Message: message.Get(ctx, message.KeyBlankTimeOver),
	}}
}

// completeTimes returns both times when both are well-formed and entered.
func completeTimes(daily DailyAttendanceForm) (start, end TrainingTime, ok bool) {
	start, okStart := daily.startTime()
	end, okEnd := daily.endTime()
	if !okStart || !okEnd || start.IsBlank() || end.IsBlank() {
		return TrainingTime{}, TrainingTime{}, false
	}
	return start, end, true
}
