// Package tracing wires Sentry performance spans into gorm and redis.
package tracing

import (
	"context"

	"attendance-lms/config"

	"github.com/getsentry/sentry-go"
)

func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpanFromContext starts a child of the span stored in ctx. It returns
// nil when ctx carries no span.
func StartSpanFromContext(ctx context.Context, operation, description string) *sentry.Span {
	parentSpan := sentry.SpanFromContext(ctx)
	if parentSpan == nil {
		return nil
	}

	span := parentSpan.StartChild(operation)
	span.Description = description
	return span
}

// Finish ends span if it was started.
func Finish(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}
