package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	"taskview/internal/global/session"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxResponseLogSize 日志中记录的响应体上限（10KB）
const maxResponseLogSize = 10 * 1024

// responseBodyWriter 捕获 JSON 响应体，页面和文件下载不记录
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if strings.HasPrefix(w.Header().Get("Content-Type"), gin.MIMEJSON) && w.body.Len() < maxResponseLogSize {
		remaining := maxResponseLogSize - w.body.Len()
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger release 模式下的请求日志
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		blw := &responseBodyWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = blw

		c.Next()

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"role", roleOf(CurrentSession(c)),
			"response_body", blw.body.String(),
		)
	}
}

// SentryEnrich 把客户端 IP 和会话身份写入 Sentry Scope，需放在 Session 中间件之后
func SentryEnrich() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()
				user := sentrylib.User{IPAddress: clientIP}
				if t, ok := CurrentSession(c).(session.Teacher); ok {
					user.Username = t.Name
				}
				scope.SetUser(user)
				scope.SetTag("client_ip", clientIP)
				scope.SetTag("role", roleOf(CurrentSession(c)))
			})
		}
		c.Next()
	}
}

func roleOf(s session.Session) string {
	switch s.(type) {
	case session.Teacher:
		return "teacher"
	case session.Student:
		return "student"
	default:
		return "anonymous"
	}
}
