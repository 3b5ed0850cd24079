package ping

import (
	"attendance-lms/internal/global/database"
	"attendance-lms/internal/global/redis"
	"attendance-lms/internal/global/response"

	"github.com/gin-gonic/gin"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		result := map[string]interface{}{
			"message": "pong",
			"version": "1.0.0",
			"mysql":   mysqlStatus(c),
			"redis":   redisStatus(c),
		}
		response.Success(c, result)
	})
}

func mysqlStatus(c *gin.Context) string {
	if database.DB == nil {
		return "disabled"
	}
	sqlDB, err := database.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Warn("mysql ping failed", "error", err)
		return "down"
	}
	return "up"
}

func redisStatus(c *gin.Context) string {
	if redis.Client == nil {
		return "disabled"
	}
	if err := redis.Client.Ping(c.Request.Context()).Err(); err != nil {
		log.Warn("redis ping failed", "error", err)
		return "down"
	}
	return "up"
}
