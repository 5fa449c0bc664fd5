package storage

import (
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TimestampLayout 附件文件名前缀，例如 20240131_154502_
const TimestampLayout = "20060102_150405_"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Policy 上传附件的扩展名白名单
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy 扩展名不区分大小写，可带或不带前导点
func NewPolicy(exts []string) *Policy {
	p := &Policy{allowed: make(map[string]struct{}, len(exts))}
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			p.allowed[ext] = struct{}{}
		}
	}
	return p
}

// Extensions 排序后的白名单，用于页面提示
func (p *Policy) Extensions() []string {
	exts := make([]string, 0, len(p.allowed))
	for ext := range p.allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Allowed 按原始文件名最后一个点之后的部分判断
func (p *Policy) Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	_, ok := p.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

// Filename 校验扩展名并生成存储文件名，ok 为 false 表示应丢弃该附件
func (p *Policy) Filename(original string, now time.Time) (name string, ok bool) {
	if !p.Allowed(original) {
		return "", false
	}
	// 主名和扩展名分开清理，主名清理为空时仍保留扩展名
	i := strings.LastIndex(original, ".")
	stem, ext := SecureFilename(original[:i]), SecureFilename(original[i+1:])
	if ext == "" {
		return "", false
	}
	return now.Format(TimestampLayout) + stem + "." + ext, true
}

// SecureFilename 把任意文件名转换为安全的单个路径元素：
// 转为 ASCII，路径分隔符换成空格，空白折叠为下划线，去掉其它字符以及首尾的点和下划线
func SecureFilename(filename string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(filename) {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	s := b.String()
	s = strings.NewReplacer("/", " ", `\`, " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	// Windows 保留设备名
	base := strings.ToUpper(strings.TrimSuffix(s, path.Ext(s)))
	switch base {
	case "CON", "PRN", "AUX", "NUL",
		"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
		"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9":
		s = "_" + s
	}
	return s
}
