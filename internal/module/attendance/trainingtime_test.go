package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTrainingTime(t *testing.T) {
	tt, err := ParseTrainingTime("09:05")
	require.NoError(t, err)
	require.Equal(t, 9, tt.Hour())
	require.Equal(t, 5, tt.Minute())
	require.Equal(t, 545, tt.Minutes())
	require.Equal(t, "09:05", tt.String())

	blank, err := ParseTrainingTime("")
	require.NoError(t, err)
	require.True(t, blank.IsBlank())
	require.Empty(t, blank.String())

	for _, bad := range []string{"9", "25:00", "09:60", "ab:cd"} {
		_, err := ParseTrainingTime(bad)
		require.Error(t, err, bad)
	}
}

func TestTrainingTimeCompare(t *testing.T) {
	a := NewTrainingTime(9, 0)
	b := NewTrainingTime(17, 30)
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(TrainingTimeAt(time.Date(2026, 4, 10, 9, 0, 59, 0, time.UTC))))
}

func TestTrainingTimeFromParts(t *testing.T) {
	tests := []struct {
		name         string
		hour, minute *int
		ok, blank    bool
	}{
		{name: "both nil", ok: true, blank: true},
		{name: "hour only", hour: intPtr(9)},
		{name: "minute only", minute: intPtr(0)},
		{name: "hour out of range", hour: intPtr(24), minute: intPtr(0)},
		{name: "minute out of range", hour: intPtr(9), minute: intPtr(60)},
		{name: "negative", hour: intPtr(-1), minute: intPtr(0)},
		{name: "midnight", hour: intPtr(0), minute: intPtr(0), ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := trainingTimeFromParts(tt.hour, tt.minute)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.blank, got.IsBlank())
			}
		})
	}
}

func TestTrainingTimeParts(t *testing.T) {
	h, m := NewTrainingTime(7, 45).Parts()
	require.Equal(t, 7, *h)
	require.Equal(t, 45, *m)

	h, m = TrainingTime{}.Parts()
	require.Nil(t, h)
	require.Nil(t, m)
}
