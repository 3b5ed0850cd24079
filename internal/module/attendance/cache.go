package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds merged attendance lists per course and user. Get treats any
// failure as a miss.
type Cache interface {
	Get(ctx context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, bool)
	Set(ctx context.Context, courseID, lmsUserID uint, list []AttendanceManagement) error
	Invalidate(ctx context.Context, courseID, lmsUserID uint) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(courseID, lmsUserID uint) string {
	return fmt.Sprintf("attendance:list:%d:%d", courseID, lmsUserID)
}

func (c *RedisCache) Get(ctx context.Context, courseID, lmsUserID uint) ([]AttendanceManagement, bool) {
	b, err := c.client.Get(ctx, cacheKey(courseID, lmsUserID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("read attendance cache", "error", err)
		}
		return nil, false
	}
	var list []AttendanceManagement
	if err := json.Unmarshal(b, &list); err != nil {
		log.Warn("decode attendance cache", "error", err)
		return nil, false
	}
	return list, true
}

func (c *RedisCache) Set(ctx context.Context, courseID, lmsUserID uint, list []AttendanceManagement) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(courseID, lmsUserID), b, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, courseID, lmsUserID uint) error {
	return c.client.Del(ctx, cacheKey(courseID, lmsUserID)).Err()
}

// NopCache is used when redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, uint, uint) ([]AttendanceManagement, bool) { return nil, false }

func (NopCache) Set(context.Context, uint, uint, []AttendanceManagement) error { return nil }

func (NopCache) Invalidate(context.Context, uint, uint) error { return nil }
