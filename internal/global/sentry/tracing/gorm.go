package tracing

import (
	"time"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormTracingPlugin 为每条 SQL 创建 Sentry span
type GormTracingPlugin struct {
	system string
	// 低于阈值的查询不发送，0 表示全部记录
	slowThreshold time.Duration
}

// NewGormTracingPlugin system 为 db.system 标签，例如 sqlite、mysql
func NewGormTracingPlugin(system string, slowThresholdMs int) *GormTracingPlugin {
	return &GormTracingPlugin{
		system:        system,
		slowThreshold: time.Duration(slowThresholdMs) * time.Millisecond,
	}
}

func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register(callbackPrefix+":before_create", p.beforeCallback("db.sql.create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register(callbackPrefix+":before_query", p.beforeCallback("db.sql.query")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register(callbackPrefix+":before_delete", p.beforeCallback("db.sql.delete")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register(callbackPrefix+":after_create", p.afterCallback); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register(callbackPrefix+":after_query", p.afterCallback); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register(callbackPrefix+":after_delete", p.afterCallback)
}

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
		span.Description = describe(db)
		span.SetData("db.system", p.system)

		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

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

// describe 只记录表名，避免把参数写进 span
func describe(db *gorm.DB) string {
	if db.Statement == nil || db.Statement.Table == "" {
		return "unknown"
	}
	return db.Statement.Table
}
