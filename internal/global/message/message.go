// Package message resolves localized user-facing strings by key.
package message

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	KeyAuthorization              = "authorization"
	KeyInputInvalid               = "input.invalid"
	KeyDialogUpdateConfirm        = "dialog.update.confirm"
	KeyUnentered                  = "attendance.unentered"
	KeyUpdateNotice               = "attendance.updateNotice"
	KeyNotWorkDay                 = "attendance.notWorkDay"
	KeyPunchInDuplicate           = "attendance.punchInDuplicate"
	KeyPunchOutDuplicate          = "attendance.punchOutDuplicate"
	KeyPunchInEmpty               = "attendance.punchInEmpty"
	KeyTrainingTimeRange          = "attendance.trainingTimeRange"
	KeyBlankTimeOver              = "attendance.blankTimeOver"
	KeyNotTrainingDate            = "attendance.notTrainingDate"
	KeyStatusTardy                = "attendance.status.tardy"
	KeyStatusLeavingEarly         = "attendance.status.leavingEarly"
	KeyStatusTardyAndLeavingEarly = "attendance.status.tardyAndLeavingEarly"
	KeyLabelStartTime             = "label.trainingStartTime"
	KeyLabelEndTime               = "label.trainingEndTime"
	KeyLabelTrainingDate          = "label.trainingDate"
	KeyLabelBlankTime             = "label.blankTime"
	KeyLabelNote                  = "label.note"
	KeyTimeMinutes                = "time.minutes"
	KeyTimeHours                  = "time.hours"
	KeyTimeHoursMinutes           = "time.hoursMinutes"
)

//go:embed messages.yaml
var catalogYAML []byte

var (
	catalog  map[string]map[string]string
	matcher  language.Matcher
	tags     []language.Tag
	fallback = language.Japanese
	loadOnce sync.Once
)

type localeKey struct{}

func load() {
	loadOnce.Do(func() {
		if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
			panic(fmt.Errorf("message catalog: %w", err))
		}
		// fallback first: the matcher returns tags[0] when nothing matches
		tags = []language.Tag{fallback}
		for name := range catalog {
			tag := language.Make(name)
			if tag != fallback {
				tags = append(tags, tag)
			}
		}
		matcher = language.NewMatcher(tags)
	})
}

// SetDefault changes the locale used when a request carries none or an
// unsupported one.
func SetDefault(locale string) {
	tag, err := language.Parse(locale)
	if err != nil {
		return
	}
	fallback = tag
	loadOnce = sync.Once{}
	load()
}

// Match picks the best supported locale for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	load()
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return fallback
	}
	_, idx, _ := matcher.Match(prefs...)
	return tags[idx]
}

func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

func Locale(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok {
		return tag
	}
	return fallback
}

// Get resolves key for the locale in ctx, substituting {0}, {1}, ... with
// args. Unknown keys resolve to the key itself.
func Get(ctx context.Context, key string, args ...any) string {
	load()
	base, _ := Locale(ctx).Base()
	msg, ok := catalog[base.String()][key]
	if !ok {
		fb, _ := fallback.Base()
		if msg, ok = catalog[fb.String()][key]; !ok {
			return key
		}
	}
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, fmt.Sprintf("{%d}", i), fmt.Sprint(a))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
