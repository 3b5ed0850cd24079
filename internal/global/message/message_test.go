package message

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	require.Equal(t, language.English, Match("en-US,en;q=0.9"))
	require.Equal(t, language.Japanese, Match("ja-JP"))
	require.Equal(t, language.Japanese, Match("fr-FR"))
	require.Equal(t, language.Japanese, Match(""))
}

func TestGet(t *testing.T) {
	ja := WithLocale(context.Background(), language.Japanese)
	en := WithLocale(context.Background(), language.English)

	require.Equal(t, "過去日の勤怠に未入力があります。", Get(ja, KeyUnentered))
	require.Equal(t, "There are unentered attendance records on past dates.", Get(en, KeyUnentered))
	require.Equal(t, "Leaving time [08:00] must be later than start time [09:00].",
		Get(en, KeyTrainingTimeRange, "09:00", "08:00"))
	require.Equal(t, "出勤時間が正しく入力されていません。",
		Get(ja, KeyInputInvalid, Get(ja, KeyLabelStartTime)))
}

func TestGetFallbacks(t *testing.T) {
	// no locale in context: default catalog
	require.Equal(t, "遅刻", Get(context.Background(), KeyStatusTardy))
	require.Equal(t, "no.such.key", Get(context.Background(), "no.such.key"))
}
