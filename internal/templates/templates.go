// Package templates 内嵌页面模板
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

//go:embed *.html
var files embed.FS

// Load 解析全部模板，prefix 为规范化后的路由前缀（config.BasePath）
// 模板内使用 {{url "/teacher/activities/" .section}} 生成链接，路径参数会被转义
func Load(prefix string) *template.Template {
	funcs := template.FuncMap{
		"url": func(p string, params ...any) string {
			var b strings.Builder
			b.WriteString(prefix)
			b.WriteString(p)
			for _, param := range params {
				b.WriteString(url.PathEscape(toString(param)))
			}
			return b.String()
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "*.html"))
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	default:
		return fmt.Sprint(v)
	}
}
