package module

import (
	"attendance-lms/internal/module/attendance"
	"attendance-lms/internal/module/ping"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	registerModule([]Module{
		&ping.ModulePing{},
		&attendance.ModuleAttendance{},
	})
}
