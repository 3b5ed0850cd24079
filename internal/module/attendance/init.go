package attendance

import (
	"log/slog"
	"time"

	"attendance-lms/config"
	"attendance-lms/internal/global/database"
	"attendance-lms/internal/global/logger"
	"attendance-lms/internal/global/message"
	"attendance-lms/internal/global/middleware"
	"attendance-lms/internal/global/redis"
	"attendance-lms/tools"
)

var log = slog.Default()

type ModuleAttendance struct {
	controller *Controller
	limiter    *middleware.RateLimiter
}

func (m *ModuleAttendance) GetName() string {
	return "Attendance"
}

func (m *ModuleAttendance) Init() {
	log = logger.New("Attendance")
	cfg := config.Get()

	registerValidations()
	message.SetDefault(cfg.Attendance.DefaultLocale)

	util, err := NewUtil(cfg.Attendance)
	tools.PanicOnErr(err)

	var cache Cache = NopCache{}
	if redis.Client != nil {
		cache = NewRedisCache(redis.Client, time.Duration(cfg.Attendance.CacheTTLSeconds)*time.Second)
	}

	service := NewService(NewGormStore(database.DB), cache, util)
	m.controller = NewController(service)
	m.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
}
