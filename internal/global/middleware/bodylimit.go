package middleware

import (
	"net/http"

	"taskview/internal/global/response"

	"github.com/gin-gonic/gin"
)

// BodyLimit 拒绝超过 limit 字节的请求体
// 声明了 Content-Length 的请求直接返回 413，其余请求在读取超限时失败
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			response.FailPage(c, response.ErrPayloadTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
