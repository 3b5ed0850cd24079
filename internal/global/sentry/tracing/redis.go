package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"attendance-lms/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisSentryHook implements redis.Hook, one span per command or pipeline.
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	threshold := time.Duration(config.Get().Sentry.Tracing.RedisSlowThresholdMs) * time.Millisecond
	return &RedisSentryHook{slowThreshold: threshold}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		return h.traced(ctx, "db.redis", strings.ToUpper(cmd.Name()), cmd.Name(), func(ctx context.Context) error {
			return next(ctx, cmd)
		})
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		return h.traced(ctx, "db.redis.pipeline", pipelineDescription(cmds), "pipeline", func(ctx context.Context) error {
			return next(ctx, cmds)
		})
	}
}

func (h *RedisSentryHook) traced(ctx context.Context, op, desc, dbOp string, fn func(context.Context) error) error {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return fn(ctx)
	}

	start := time.Now()
	span := parent.StartChild(op)
	span.Description = desc
	span.SetData("db.system", "redis")
	span.SetData("db.operation", dbOp)

	err := fn(span.Context())

	if h.slowThreshold > 0 && time.Since(start) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("redis.error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
	return err
}

// pipelineDescription lists at most three command names.
func pipelineDescription(cmds []redis.Cmder) string {
	if len(cmds) == 0 {
		return "PIPELINE (empty)"
	}
	const maxShow = 3
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i >= maxShow {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > maxShow {
		desc += "..."
	}
	return desc
}
