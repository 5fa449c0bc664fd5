package sentry

import (
	"fmt"
	"time"

	"taskview/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// CodedError 带状态码的错误，只有 5xx 才上报
type CodedError interface {
	error
	GetCode() int32
}

var enabled bool

// Enabled 是否配置了 DSN 并完成初始化
func Enabled() bool {
	return enabled
}

// Init 初始化 Sentry SDK，未配置 DSN 时跳过
func Init(cfg config.Sentry, mode config.Mode) error {
	if cfg.Dsn == "" {
		return nil
	}

	tracesSampleRate := cfg.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}

	environment := cfg.Environment
	if environment == "" {
		environment = string(mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Dsn,
		Environment:      environment,
		Release:          "taskview@1.0.0",
		SampleRate:       1.0,
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	enabled = true
	return nil
}

// Middleware 未启用时返回空中间件
func Middleware() gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给后续的 Recovery 处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务器错误，业务错误不上报
func CaptureException(c *gin.Context, err error) {
	if !enabled || !shouldReport(err) {
		return
	}

	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetRequest(c.Request)
			scope.SetTag("path", c.Request.URL.Path)
			scope.SetTag("method", c.Request.Method)
			hub.CaptureException(err)
		})
	}
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 500 && e.GetCode() < 600
	}
	return true
}

// Flush 退出前调用
func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}
