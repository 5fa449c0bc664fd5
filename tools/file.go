package tools

import (
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	OctetContentType = "application/octet-stream"
)

// SendStoredFile 以附件形式返回本地文件
func SendStoredFile(c *gin.Context, path, displayName, contentType string) {
	escaped := url.PathEscape(displayName)

	c.Header("Content-Type", contentType)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.File(path)
}
