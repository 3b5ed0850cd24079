package server

import (
	"fmt"
	"log/slog"
	"time"

	"attendance-lms/config"
	"attendance-lms/internal/global/database"
	"attendance-lms/internal/global/logger"
	"attendance-lms/internal/global/middleware"
	"attendance-lms/internal/global/redis"
	"attendance-lms/internal/global/response"
	"attendance-lms/internal/global/sentry"
	"attendance-lms/internal/module"
	"attendance-lms/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()

	// sentry first so the logger can fan out to it
	sentryErr := sentry.Init()
	log = logger.New("Server")
	if sentryErr != nil {
		log.Error("sentry init failed", "error", sentryErr)
	}

	database.Init()
	redis.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	defer sentry.Flush(2 * time.Second)

	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(sentry.Middleware())
	r.Use(middleware.SentryEnrichIP())
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	r.Use(middleware.Locale())

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}
	r.NoRoute(response.NoRoute)

	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
