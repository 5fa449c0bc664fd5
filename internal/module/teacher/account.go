package teacher

import (
	"taskview/internal/global/database"
	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/session"
	"taskview/internal/model"
	"taskview/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterReq 注册请求，teacher_pin 为全站共享的教师注册口令
type RegisterReq struct {
	Name       string `json:"name"`
	TeacherPIN string `json:"teacher_pin"`
	Password   string `json:"password"`
}

type LoginReq struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (m *ModuleTeacher) RegisterPage(c *gin.Context) {
	response.Page(c, "teacher_register.html", gin.H{})
}

func (m *ModuleTeacher) LoginPage(c *gin.Context) {
	response.Page(c, "teacher_login.html", gin.H{})
}

// Register 校验教师口令后创建账号，密码只保存 bcrypt 哈希
func (m *ModuleTeacher) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("绑定注册请求失败", "error", err)
		response.Fail(c, response.ErrValidation.WithOrigin(err))
		return
	}

	if req.TeacherPIN != m.app.Config.Auth.TeacherPIN {
		log.Warn("教师口令错误", "name", req.Name)
		response.Fail(c, response.ErrInvalidTeacherPIN)
		return
	}
	if req.Name == "" || req.Password == "" {
		response.Fail(c, response.ErrValidation.WithMessage("Name and password are required"))
		return
	}

	hash, err := tools.PasswordEncrypt(req.Password)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		response.Fail(c, response.ErrValidation.WithMessage("Password is too long"))
		return
	case err != nil:
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	teacher := model.Teacher{Name: req.Name, Password: hash}
	if err := m.app.DB.WithContext(c.Request.Context()).Create(&teacher).Error; err != nil {
		if database.IsDuplicate(err) {
			log.Warn("教师名已存在", "name", req.Name)
			response.Fail(c, response.ErrTeacherExists)
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("教师注册成功", "teacher_id", teacher.ID, "name", teacher.Name)
	response.Success(c)
}

// Login 名称精确匹配，名称不存在与密码错误返回同一个错误
func (m *ModuleTeacher) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrValidation.WithOrigin(err))
		return
	}

	var teacher model.Teacher
	err := m.app.DB.WithContext(c.Request.Context()).Where("name = ?", req.Name).First(&teacher).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("教师不存在", "name", req.Name)
		response.Fail(c, response.ErrInvalidCredentials)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, teacher.Password) {
		log.Warn("密码错误", "name", req.Name)
		response.Fail(c, response.ErrInvalidCredentials)
		return
	}

	sess := session.Teacher{ID: teacher.ID, Name: teacher.Name}
	if err := m.app.Sessions.Save(c.Writer, c.Request, sess); err != nil {
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	middleware.SetSession(c, sess)

	log.Info("教师登录成功", "teacher_id", teacher.ID, "name", teacher.Name)
	response.Success(c)
}

func (m *ModuleTeacher) SectionSelect(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}
	response.Page(c, "teacher_section_select.html", gin.H{
		"sections":     m.app.Sections.Names(),
		"teacher_name": t.Name,
	})
}
