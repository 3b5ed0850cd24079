package redis

import (
	"context"
	"time"

	"attendance-lms/config"
	"attendance-lms/internal/global/logger"
	"attendance-lms/internal/global/sentry/tracing"

	"github.com/redis/go-redis/v9"
)

// Client is nil when no redis host is configured; callers fall back to
// uncached reads.
var Client *redis.Client

func Init() {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		logger.New("Redis").Warn("redis host not configured, caching disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		Client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		logger.New("Redis").Error("redis ping failed, caching disabled", "error", err)
		Client = nil
	}
}
