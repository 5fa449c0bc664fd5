package ping

import (
	"taskview/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

// InitRouter 健康检查，同时探测数据库连接
func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		sqlDB, err := p.app.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			log.Error("数据库不可用", "error", err)
			response.Fail(c, response.ErrDatabase.WithOrigin(err))
			return
		}
		response.Success(c, gin.H{
			"message": "pong",
			"version": version,
		})
	})
}
