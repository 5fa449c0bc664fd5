package student

import (
	"github.com/gin-gonic/gin"
)

// InitRouter 学生端路由，通过班级 PIN 校验后只能访问该班级
func (m *ModuleStudent) InitRouter(r *gin.RouterGroup) {
	studentGroup := r.Group("/student")

	studentGroup.GET("/section-select", m.SectionSelect)
	studentGroup.POST("/verify-pin", m.VerifyPIN)
	studentGroup.GET("/activities", m.ListActivities)
	studentGroup.GET("/activity/:id", m.GetActivity)
}
