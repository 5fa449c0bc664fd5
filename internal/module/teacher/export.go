package teacher

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/sentry/tracing"
	"taskview/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Activities"

// ActivityRow 导出表格的一行
type ActivityRow struct {
	ID          uint      `excel:"ID"`
	Subject     string    `excel:"Subject"`
	Type        string    `excel:"Type"`
	Deadline    string    `excel:"Deadline"`
	Description string    `excel:"Description"`
	Attachment  string    `excel:"Attachment"`
	TeacherName string    `excel:"Teacher"`
	CreatedAt   time.Time `excel:"Created"`
}

// ExportActivities 把班级活动导出为 xlsx
func (m *ModuleTeacher) ExportActivities(c *gin.Context) {
	t, err := middleware.RequireTeacher(c)
	if err != nil {
		response.FailPage(c, err)
		return
	}

	section := c.Param("section")
	if !m.app.Sections.Exists(section) {
		response.FailPage(c, response.ErrInvalidSection)
		return
	}

	activities, err := m.sectionActivities(c, section)
	if err != nil {
		response.FailPage(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	rows := make([]ActivityRow, 0, len(activities))
	for _, a := range activities {
		rows = append(rows, ActivityRow{
			ID:          a.ID,
			Subject:     a.Subject,
			Type:        a.Type,
			Deadline:    a.Deadline,
			Description: a.Description,
			Attachment:  a.AttachmentName(),
			TeacherName: a.TeacherName,
			CreatedAt:   a.CreatedAt,
		})
	}

	span := tracing.StartSpan(c, "excel.export", section)
	defer span.Finish()

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		response.FailPage(c, response.ErrInternal.WithOrigin(err))
		return
	}
	if err := tools.ExportToExcel(f, exportSheet, rows); err != nil {
		log.Error("导出活动失败", "section", section, "error", err)
		response.FailPage(c, response.ErrInternal.WithOrigin(err))
		return
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		response.FailPage(c, response.ErrInternal.WithOrigin(err))
		return
	}

	log.Info("导出活动", "section", section, "count", len(rows), "teacher_id", t.ID)
	filename := url.PathEscape(section + ".xlsx")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, filename, filename))
	c.Data(http.StatusOK, tools.ExcelContentType, buf.Bytes())
}
