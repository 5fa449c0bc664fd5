// Package app 汇总各模块共用的依赖，由 server 在启动时构建一次
package app

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"taskview/config"
	"taskview/internal/global/database"
	"taskview/internal/global/sections"
	"taskview/internal/global/session"
	"taskview/internal/global/storage"
)

type App struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions *session.Manager
	Storage  storage.Storage
	Uploads  *storage.Policy
	Sections *sections.Registry
	Log      *slog.Logger
}

// New 按配置打开数据库、附件存储并构建班级表
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	registry, err := sections.NewRegistry(cfg.Sections)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Sessions: session.NewManager(cfg.Session),
		Storage:  store,
		Uploads:  storage.NewPolicy(cfg.Storage.AllowedExtensions),
		Sections: registry,
		Log:      log,
	}, nil
}

// Close 关闭数据库连接
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Path 拼接路由前缀，params 逐个做路径转义后追加
func (a *App) Path(p string, params ...string) string {
	var b strings.Builder
	b.WriteString(a.Config.BasePath())
	b.WriteString(p)
	for _, param := range params {
		b.WriteString(url.PathEscape(param))
	}
	return b.String()
}
