package database

import (
	"fmt"

	"attendance-lms/config"
	"attendance-lms/internal/global/sentry/tracing"
	"attendance-lms/internal/model"
	"attendance-lms/tools"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

var autoMigrateModels = []any{
	&model.LmsUser{},
	&model.CourseSchedule{},
	&model.StudentAttendance{},
}

func Init() {
	cfg := config.Get()
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Mysql.Username,
		cfg.Mysql.Password,
		cfg.Mysql.Host,
		cfg.Mysql.Port,
		cfg.Mysql.DBName,
	)
	gormConfig := &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	}

	switch cfg.Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	tools.PanicOnErr(err)
	DB = db

	if tracing.IsEnabled() {
		tools.PanicOnErr(DB.Use(tracing.NewGormTracingPlugin()))
	}

	tools.PanicOnErr(Migrate(DB))
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(autoMigrateModels...)
}
