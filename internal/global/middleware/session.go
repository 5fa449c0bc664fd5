package middleware

import (
	"taskview/internal/global/response"
	"taskview/internal/global/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Session 为每个请求解码 cookie 会话，handler 通过 CurrentSession 读取
func Session(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, m.Load(c.Request))
		c.Next()
	}
}

// CurrentSession 未经过 Session 中间件时返回 Anonymous
func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(session.Session); ok {
			return s
		}
	}
	return session.Anonymous{}
}

// SetSession 更新本次请求内可见的会话，写 cookie 由 session.Manager 负责
func SetSession(c *gin.Context, s session.Session) {
	c.Set(sessionKey, s)
}

// RequireTeacher 当前会话必须是已登录教师
func RequireTeacher(c *gin.Context) (session.Teacher, error) {
	if t, ok := CurrentSession(c).(session.Teacher); ok {
		return t, nil
	}
	return session.Teacher{}, response.ErrTeacherRequired
}

// RequireStudent 当前会话必须已通过班级 PIN 校验
func RequireStudent(c *gin.Context) (session.Student, error) {
	if s, ok := CurrentSession(c).(session.Student); ok {
		return s, nil
	}
	return session.Student{}, response.ErrStudentRequired
}
