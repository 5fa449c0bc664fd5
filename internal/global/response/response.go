package response

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"taskview/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

// debugMode 为 true 时错误响应携带 Origin
var debugMode bool

var log = slog.Default()

// Setup 由 server 在启动时调用
func Setup(debug bool, logger *slog.Logger) {
	debugMode = debug
	if logger != nil {
		log = logger
	}
}

// Success 返回 {"success": true}，可附加字段
func Success(c *gin.Context, data ...gin.H) {
	body := gin.H{"success": true}
	for _, d := range data {
		for k, v := range d {
			body[k] = v
		}
	}
	c.JSON(http.StatusOK, body)
}

// Fail 以 JSON 返回错误
func Fail(c *gin.Context, err error) {
	e := normalize(c, err)
	c.AbortWithStatusJSON(e.Status, body(e))
}

// FailPage 页面路由的错误：默认纯文本，客户端偏好 JSON 时返回 JSON
func FailPage(c *gin.Context, err error) {
	e := normalize(c, err)
	switch c.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.AbortWithStatusJSON(e.Status, body(e))
	default:
		c.Abort()
		c.String(e.Status, e.Message)
	}
}

// Page 渲染模板，客户端偏好 JSON 时直接返回数据
func Page(c *gin.Context, name string, data gin.H) {
	switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, data)
	default:
		c.HTML(http.StatusOK, name, data)
	}
}

// Recovery 捕获 panic 并返回 500
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		log.Error("服务异常", "panic", r, "path", c.Request.URL.Path, "stack", string(debug.Stack()))
		Fail(c, ErrInternal)
	}
}

func normalize(c *gin.Context, err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrInternal.WithOrigin(err)
	}
	_ = c.Error(e)
	if e.Status >= http.StatusInternalServerError {
		log.Error("请求处理失败", "path", c.Request.URL.Path, "error", e, "origin", e.Origin)
		sentry.CaptureException(c, e)
	}
	return e
}

func body(e *Error) gin.H {
	h := gin.H{"error": e.Message, "code": e.Code}
	if debugMode && e.Origin != "" {
		h["origin"] = e.Origin
	}
	return h
}
