package teacher

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/sentry/tracing"
	"taskview/internal/global/session"
	"taskview/internal/global/storage"
	"taskview/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ActivityForm 新建活动表单，除 section 外都是自由文本，允许为空
type ActivityForm struct {
	Section     string `form:"section"`
	Subject     string `form:"subject"`
	Type        string `form:"type"`
	Deadline    string `form:"deadline"`
	Description string `form:"description"`
}

// ListActivities 列出班级内全部活动（不限创建者），并记为当前班级
func (m *ModuleTeacher) ListActivities(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	section := c.Param("section")
	if !m.app.Sections.Exists(section) {
		c.Redirect(http.StatusSeeOther, m.app.Path("/teacher/section-select"))
		return
	}

	if t.CurrentSection != section {
		t.CurrentSection = section
		if err := m.app.Sessions.Save(c.Writer, c.Request, t); err != nil {
			response.FailPage(c, response.ErrInternal.WithOrigin(err))
			return
		}
		middleware.SetSession(c, t)
	}

	activities, err := m.sectionActivities(c, section)
	if err != nil {
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Page(c, "teacher_activities.html", gin.H{
		"activities":   activities,
		"section":      section,
		"teacher_name": t.Name,
	})
}

func (m *ModuleTeacher) AddActivityPage(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}
	response.Page(c, "add_activity.html", gin.H{
		"section":  t.CurrentSection,
		"sections": m.app.Sections.Names(),
		"allowed":  strings.Join(m.app.Uploads.Extensions(), ", "),
	})
}

// AddActivity 保存活动和可选附件，成功后跳转到该班级的活动列表
// 扩展名不在白名单内的附件被忽略，活动照常创建
func (m *ModuleTeacher) AddActivity(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	var form ActivityForm
	if err := c.ShouldBind(&form); err != nil {
		response.FailPage(c, bodyError(err))
		return
	}
	if !m.app.Sections.Exists(form.Section) {
		log.Warn("新建活动的班级不存在", "section", form.Section, "teacher_id", t.ID)
		response.FailPage(c, response.ErrInvalidSection)
		return
	}

	activity := model.Activity{
		Section:     form.Section,
		Subject:     form.Subject,
		Type:        form.Type,
		Deadline:    form.Deadline,
		Description: form.Description,
		TeacherID:   t.ID,
		TeacherName: t.Name,
	}

	fh, err := c.FormFile("attachment")
	switch {
	case err == nil && fh.Filename != "":
		name, err := m.saveAttachment(c, fh)
		if err != nil {
			response.FailPage(c, err)
			return
		}
		if name != "" {
			activity.Attachment = &name
		}
	case err != nil && !errors.Is(err, http.ErrMissingFile):
		response.FailPage(c, bodyError(err))
		return
	}

	if err := m.app.DB.WithContext(c.Request.Context()).Create(&activity).Error; err != nil {
		if activity.HasAttachment() {
			if rmErr := m.app.Storage.Remove(c.Request.Context(), *activity.Attachment); rmErr != nil {
				log.Warn("回滚附件失败", "attachment", *activity.Attachment, "error", rmErr)
			}
		}
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("新建活动",
		"activity_id", activity.ID,
		"section", activity.Section,
		"teacher_id", t.ID,
		"attachment", activity.AttachmentName())
	c.Redirect(http.StatusSeeOther, m.app.Path("/teacher/activities/", activity.Section))
}

// saveAttachment 返回存储中的文件名，附件被策略拒绝时返回空串
func (m *ModuleTeacher) saveAttachment(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if !m.app.Uploads.Allowed(fh.Filename) {
		log.Info("忽略不允许的附件", "filename", fh.Filename)
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", response.ErrStorage.WithOrigin(err)
	}
	defer src.Close()

	span := tracing.StartSpan(c, "storage.save", fh.Filename)
	defer span.Finish()

	name, err := storage.SaveUnique(c.Request.Context(), m.app.Storage, m.app.Uploads, fh.Filename, time.Now(), src)
	switch {
	case errors.Is(err, storage.ErrNotAllowed):
		log.Info("忽略不允许的附件", "filename", fh.Filename)
		return "", nil
	case err != nil:
		return "", response.ErrStorage.WithOrigin(err)
	}
	return name, nil
}

// GetActivity 教师可以查看任意班级的活动，只有创建者可以删除
func (m *ModuleTeacher) GetActivity(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	activity, err := m.findActivity(c, c.Param("id"))
	if err != nil {
		response.FailPage(c, err)
		return
	}

	response.Page(c, "activity_detail.html", gin.H{
		"activity":   activity,
		"can_delete": activity.TeacherID == t.ID,
		"is_teacher": true,
	})
}

// DeleteActivity 只删除当前教师创建的活动
// 活动不存在或不属于当前教师时不做任何修改，同样跳转回列表
func (m *ModuleTeacher) DeleteActivity(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.FailPage(c, response.ErrActivityNotFound)
		return
	}

	ctx := c.Request.Context()
	var activity model.Activity
	err = m.app.DB.WithContext(ctx).Where("id = ? AND teacher_id = ?", id, t.ID).First(&activity).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("删除的活动不存在或不属于当前教师", "activity_id", id, "teacher_id", t.ID)
		c.Redirect(http.StatusSeeOther, m.listPath(t))
		return
	case err != nil:
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if activity.HasAttachment() {
		span := tracing.StartSpan(c, "storage.remove", *activity.Attachment)
		if err := m.app.Storage.Remove(ctx, *activity.Attachment); err != nil && !errors.Is(err, storage.ErrNotExist) {
			log.Warn("删除附件失败", "attachment", *activity.Attachment, "error", err)
		}
		span.Finish()
	}

	if err := m.app.DB.WithContext(ctx).Delete(&model.Activity{}, activity.ID).Error; err != nil {
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("删除活动", "activity_id", activity.ID, "teacher_id", t.ID)
	c.Redirect(http.StatusSeeOther, m.listPath(t))
}

// listPath 回到当前班级列表，尚未选择班级时回到班级选择页
func (m *ModuleTeacher) listPath(t session.Teacher) string {
	if t.CurrentSection == "" {
		return m.app.Path("/teacher/section-select")
	}
	return m.app.Path("/teacher/activities/", t.CurrentSection)
}

// sectionActivities 新建的活动在前
func (m *ModuleTeacher) sectionActivities(c *gin.Context, section string) ([]model.Activity, error) {
	var activities []model.Activity
	err := m.app.DB.WithContext(c.Request.Context()).
		Where("section = ?", section).
		Order("created_at DESC, id DESC").
		Find(&activities).Error
	return activities, err
}

func (m *ModuleTeacher) findActivity(c *gin.Context, rawID string) (*model.Activity, error) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return nil, response.ErrActivityNotFound
	}

	var activity model.Activity
	err = m.app.DB.WithContext(c.Request.Context()).First(&activity, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrActivityNotFound
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &activity, nil
}

// bodyError 读取请求体超出上限时返回 413，其他解析失败为 400
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return response.ErrPayloadTooLarge
	}
	return response.ErrValidation.WithOrigin(err)
}
