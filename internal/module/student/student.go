package student

import (
	"strconv"

	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/sections"
	"taskview/internal/global/session"
	"taskview/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type VerifyPINReq struct {
	Section string `json:"section"`
	PIN     string `json:"pin"`
}

func (m *ModuleStudent) SectionSelect(c *gin.Context) {
	response.Page(c, "student_section_select.html", gin.H{
		"sections": m.app.Sections.Names(),
	})
}

// VerifyPIN 校验通过后会话切换为该班级的学生，覆盖原有的教师登录状态
func (m *ModuleStudent) VerifyPIN(c *gin.Context) {
	var req VerifyPINReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("绑定 PIN 校验请求失败", "error", err)
		response.Fail(c, response.ErrValidation.WithOrigin(err))
		return
	}

	switch err := m.app.Sections.Verify(req.Section, req.PIN); {
	case errors.Is(err, sections.ErrUnknownSection):
		response.Fail(c, response.ErrInvalidSection)
		return
	case errors.Is(err, sections.ErrWrongPIN):
		log.Warn("班级 PIN 错误", "section", req.Section, "client_ip", c.ClientIP())
		response.Fail(c, response.ErrIncorrectPIN)
		return
	case err != nil:
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	sess := session.Student{Section: req.Section}
	if err := m.app.Sessions.Save(c.Writer, c.Request, sess); err != nil {
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	middleware.SetSession(c, sess)

	response.Success(c, gin.H{"section": req.Section})
}

func (m *ModuleStudent) ListActivities(c *gin.Context) {
	s, err := middleware.RequireStudent(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	var activities []model.Activity
	err = m.app.DB.WithContext(c.Request.Context()).
		Where("section = ?", s.Section).
		Order("created_at DESC, id DESC").
		Find(&activities).Error
	if err != nil {
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Page(c, "student_activities.html", gin.H{
		"activities": activities,
		"section":    s.Section,
	})
}

// GetActivity 其他班级的活动返回 403
func (m *ModuleStudent) GetActivity(c *gin.Context) {
	s, err := middleware.RequireStudent(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.FailPage(c, response.ErrActivityNotFound)
		return
	}

	var activity model.Activity
	err = m.app.DB.WithContext(c.Request.Context()).First(&activity, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.FailPage(c, response.ErrActivityNotFound)
		return
	case err != nil:
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if activity.Section != s.Section {
		log.Warn("学生访问其他班级的活动", "activity_id", activity.ID, "section", s.Section)
		response.FailPage(c, response.ErrForbidden)
		return
	}

	response.Page(c, "activity_detail.html", gin.H{
		"activity":   activity,
		"can_delete": false,
		"is_teacher": false,
	})
}
