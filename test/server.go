package test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taskview/cmd/server"
	"taskview/config"
	"taskview/internal/app"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Env 一个完整的服务实例
type Env struct {
	App    *app.App
	Engine *gin.Engine
}

func NewEnv(t *testing.T) *Env {
	return NewEnvWithConfig(t, NewConfig(t))
}

func NewEnvWithConfig(t *testing.T, cfg *config.Config) *Env {
	t.Helper()
	a := NewApp(t, cfg)
	return &Env{App: a, Engine: server.NewEngine(a)}
}

func (e *Env) Client(t *testing.T) *Client {
	return NewClient(t, e.Engine)
}

// RegisterTeacher 注册并登录，返回保持教师会话的客户端
func (e *Env) RegisterTeacher(t *testing.T, name, password string) *Client {
	t.Helper()
	c := e.Client(t)
	NoError(t, c.PostJSON("/teacher/register", map[string]string{
		"name":        name,
		"teacher_pin": TeacherPIN,
		"password":    password,
	}))
	NoError(t, c.PostJSON("/teacher/login", map[string]string{
		"name":     name,
		"password": password,
	}))
	return c
}

// Student 通过 PIN 校验，返回绑定该班级的客户端
func (e *Env) Student(t *testing.T, section, pin string) *Client {
	t.Helper()
	c := e.Client(t)
	NoError(t, c.PostJSON("/student/verify-pin", map[string]string{
		"section": section,
		"pin":     pin,
	}))
	return c
}

// PostActivity 新建活动，要求跳转成功
func PostActivity(t *testing.T, c *Client, fields map[string]string, file *File) {
	t.Helper()
	w := c.PostMultipart("/teacher/add-activity", fields, file)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
}
