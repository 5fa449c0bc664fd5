// Package test 提供集成测试用的应用实例和带 cookie 的请求客户端
package test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskview/config"
	"taskview/internal/app"
	"taskview/internal/global/logger"
)

const (
	TeacherPIN = "1234"
	Section    = "Grade 11 - ICT - CHRONICLES"
	SectionPIN = "1111"
)

// NewConfig 临时目录下的 sqlite 数据库和本地附件目录
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Mode: config.ModeDebug,
		Database: config.Database{
			Driver:       "sqlite",
			Path:         filepath.Join(dir, "taskview.db"),
			MaxOpenConns: 1,
		},
		Session: config.Session{
			Name:   "taskview-session",
			Secret: "integration-test-secret",
			MaxAge: time.Hour,
		},
		Auth:     config.Auth{TeacherPIN: TeacherPIN},
		Sections: config.DefaultSections(),
		Storage: config.Storage{
			Driver:            "local",
			Home:              filepath.Join(dir, "uploads"),
			MaxUploadMB:       1,
			AllowedExtensions: []string{"pdf", "doc", "docx", "txt", "jpg", "jpeg", "png", "zip"},
		},
	}
}

func NewApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg, logger.Get())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}
