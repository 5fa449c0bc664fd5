package teacher

import (
	"github.com/gin-gonic/gin"
)

// InitRouter 教师端路由，除注册和登录外都要求教师会话
func (m *ModuleTeacher) InitRouter(r *gin.RouterGroup) {
	teacherGroup := r.Group("/teacher")

	teacherGroup.GET("/register", m.RegisterPage)
	teacherGroup.POST("/register", m.Register)
	teacherGroup.GET("/login", m.LoginPage)
	teacherGroup.POST("/login", m.Login)

	teacherGroup.GET("/section-select", m.SectionSelect)
	teacherGroup.GET("/activities/:section", m.ListActivities)
	teacherGroup.GET("/activities/:section/export", m.ExportActivities)

	teacherGroup.GET("/add-activity", m.AddActivityPage)
	teacherGroup.POST("/add-activity", m.AddActivity)

	teacherGroup.GET("/activity/:id", m.GetActivity)
	teacherGroup.POST("/delete-activity/:id", m.DeleteActivity)
}
