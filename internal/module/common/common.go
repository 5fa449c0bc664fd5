package common

import (
	"mime"
	"net/http"
	"path/filepath"

	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/sentry/tracing"
	"taskview/internal/global/session"
	"taskview/internal/global/storage"
	"taskview/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Index 回到角色选择页时清空会话
func (m *ModuleCommon) Index(c *gin.Context) {
	if !m.clearSession(c) {
		return
	}
	response.Page(c, "role_selection.html", gin.H{})
}

func (m *ModuleCommon) Logout(c *gin.Context) {
	if !m.clearSession(c) {
		return
	}
	c.Redirect(http.StatusSeeOther, m.app.Path("/"))
}

// Sections 按配置顺序返回班级名称
func (m *ModuleCommon) Sections(c *gin.Context) {
	c.JSON(http.StatusOK, m.app.Sections.Names())
}

// Download 按存储文件名下载附件，不校验会话
func (m *ModuleCommon) Download(c *gin.Context) {
	name := c.Param("filename")

	span := tracing.StartSpan(c, "storage.download", name)
	d, err := m.app.Storage.Download(tracing.ContextWithSpan(c), name)
	span.Finish()
	switch {
	case errors.Is(err, storage.ErrNotExist):
		response.FailPage(c, response.ErrFileNotFound)
		return
	case err != nil:
		response.FailPage(c, response.ErrStorage.WithOrigin(err))
		return
	}

	if d.URL != "" {
		c.Redirect(http.StatusFound, d.URL)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = tools.OctetContentType
	}
	tools.SendStoredFile(c, d.Path, name, contentType)
}

func (m *ModuleCommon) clearSession(c *gin.Context) bool {
	if err := m.app.Sessions.Clear(c.Writer, c.Request); err != nil {
		response.FailPage(c, response.ErrInternal.WithOrigin(err))
		return false
	}
	middleware.SetSession(c, session.Anonymous{})
	return true
}
