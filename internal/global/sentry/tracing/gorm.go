package tracing

import (
	"time"

	"attendance-lms/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormTracingPlugin 实现 GORM Plugin 接口，用于追踪数据库操作
type GormTracingPlugin struct {
	// slowThreshold 慢查询阈值，仅记录执行时间超过此值的查询
	// 设为 0 表示记录所有查询
	slowThreshold time.Duration
}

// NewGormTracingPlugin 创建 GORM Sentry 追踪插件
func NewGormTracingPlugin() *GormTracingPlugin {
	threshold := time.Duration(config.Get().Sentry.Tracing.DBSlowThresholdMs) * time.Millisecond
	return &GormTracingPlugin{slowThreshold: threshold}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

// Initialize 注册 GORM 回调，任一注册失败即返回错误
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	var err error
	check := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	// 在每个操作开始前创建 span
	check(db.Callback().Create().Before("gorm:create").Register(callbackPrefix+":before_create", p.beforeCallback("db.sql.create")))
	check(db.Callback().Query().Before("gorm:query").Register(callbackPrefix+":before_query", p.beforeCallback("db.sql.query")))
	check(db.Callback().Update().Before("gorm:update").Register(callbackPrefix+":before_update", p.beforeCallback("db.sql.update")))
	check(db.Callback().Delete().Before("gorm:delete").Register(callbackPrefix+":before_delete", p.beforeCallback("db.sql.delete")))
	check(db.Callback().Row().Before("gorm:row").Register(callbackPrefix+":before_row", p.beforeCallback("db.sql.row")))
	check(db.Callback().Raw().Before("gorm:raw").Register(callbackPrefix+":before_raw", p.beforeCallback("db.sql.raw")))

	// 在每个操作完成后结束 span
	check(db.Callback().Create().After("gorm:create").Register(callbackPrefix+":after_create", p.afterCallback))
	check(db.Callback().Query().After("gorm:query").Register(callbackPrefix+":after_query", p.afterCallback))
	check(db.Callback().Update().After("gorm:update").Register(callbackPrefix+":after_update", p.afterCallback))
	check(db.Callback().Delete().After("gorm:delete").Register(callbackPrefix+":after_delete", p.afterCallback))
	check(db.Callback().Row().After("gorm:row").Register(callbackPrefix+":after_row", p.afterCallback))
	check(db.Callback().Raw().After("gorm:raw").Register(callbackPrefix+":after_raw", p.afterCallback))

	return err
}

// beforeCallback 在数据库操作前创建 span
func (p *GormTracingPlugin) beforeCallback(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())

		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}

		span := parent.StartChild(operation)
		// 仅记录表名，完整 SQL 可能含有个人信息
		span.Description = db.Statement.Table
		if span.Description == "" {
			span.Description = "unknown"
		}
		span.SetData("db.system", "mysql")

		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

// afterCallback 在数据库操作后结束 span
func (p *GormTracingPlugin) afterCallback(db *gorm.DB) {
	if db.Statement == nil {
		return
	}

	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	start, ok := startVal.(time.Time)
	if !ok {
		return
	}
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := spanVal.(*sentry.Span)
	if !ok || span == nil {
		return
	}

	if p.slowThreshold > 0 && time.Since(start) < p.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}

	span.SetData("db.rows_affected", db.RowsAffected)
	if db.Error != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("db.error", db.Error.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
