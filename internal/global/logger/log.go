package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"taskview/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	mu       sync.RWMutex
)

// multiHandler 将日志同时发送到多个 handler
type multiHandler struct {
	handlers []slog.Handler
}

func newMultiHandler(handlers ...slog.Handler) *multiHandler {
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return newMultiHandler(handlers...)
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return newMultiHandler(handlers...)
}

// Init 根据配置构建全局 Logger
// release 模式且配置了文件路径时写入轮转文件，否则输出到控制台
func Init(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Mode == config.ModeRelease,
		Level:     getLogLevel(cfg.Log.Level),
	}

	var base slog.Handler
	if cfg.Mode == config.ModeRelease && cfg.Log.FilePath != "" {
		base = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}, opts)
	} else {
		base = slog.NewTextHandler(os.Stdout, opts)
	}

	var handler slog.Handler = base
	if cfg.Sentry.Dsn != "" {
		sentryHandler := sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			AddSource:  cfg.Mode == config.ModeRelease,
		}.NewSentryHandler(context.Background())
		handler = newMultiHandler(base, sentryHandler)
	}

	l := slog.New(handler).With(
		"app_name", "taskview",
		"env", string(cfg.Mode),
	)
	mu.Lock()
	instance = l
	mu.Unlock()
	return l
}

// Get 获取全局 Logger，未初始化时返回丢弃输出的 Logger
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return instance
}

// New 创建带模块字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func getLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
