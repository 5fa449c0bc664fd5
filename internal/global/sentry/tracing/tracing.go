// Package tracing 提供 Sentry 性能追踪，目前覆盖 GORM 查询和 handler 内的自定义 span
package tracing

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// ContextWithSpan 返回携带 sentrygin transaction 的 context，传给 GORM 即可串联 span
//
//	db.WithContext(tracing.ContextWithSpan(c)).Find(&activities)
func ContextWithSpan(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// StartSpan 在当前请求的 transaction 下创建子 span，调用方负责 Finish
func StartSpan(c *gin.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ContextWithSpan(c))
	if parent == nil {
		// 没有 transaction 时返回一个独立 span，Finish 不会上报
		return sentry.StartSpan(context.Background(), operation, sentry.WithDescription(description))
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}
