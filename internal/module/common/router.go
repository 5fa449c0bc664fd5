package common

import (
	"github.com/gin-gonic/gin"
)

func (m *ModuleCommon) InitRouter(r *gin.RouterGroup) {
	r.GET("/", m.Index)
	r.GET("/logout", m.Logout)
	r.GET("/download/:filename", m.Download)

	api := r.Group("/api")
	api.GET("/sections", m.Sections)
}
