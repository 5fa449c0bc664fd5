package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskview/config"
	"taskview/internal/app"
	"taskview/internal/global/logger"
	"taskview/internal/global/middleware"
	"taskview/internal/global/response"
	"taskview/internal/global/sentry"
	"taskview/internal/module"
	"taskview/internal/templates"
	"taskview/tools"

	"github.com/gin-gonic/gin"
)

var (
	log      *slog.Logger
	instance *app.App
)

func Init() {
	cfg := config.Get()
	logger.Init(cfg)
	log = logger.New("Server")

	if err := sentry.Init(cfg.Sentry, cfg.Mode); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	a, err := app.New(context.Background(), cfg, logger.Get())
	tools.PanicOnErr(err)
	instance = a

	response.Setup(cfg.Mode == config.ModeDebug, logger.Get())
}

// NewEngine 组装中间件和全部模块的路由
func NewEngine(a *app.App) *gin.Engine {
	r := gin.New()

	switch a.Config.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(sentry.Middleware())
	r.Use(middleware.BodyLimit(a.Config.Storage.MaxUploadBytes()))
	r.Use(middleware.Session(a.Sessions))
	r.Use(middleware.SentryEnrich())

	r.SetHTMLTemplate(templates.Load(a.Config.BasePath()))
	r.MaxMultipartMemory = 8 << 20

	group := r.Group(a.Config.BasePath() + "/")
	for _, m := range module.Modules() {
		if log != nil {
			log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		}
		m.Init(a)
		m.InitRouter(group)
	}
	return r
}

func Run() {
	cfg := instance.Config
	gin.SetMode(string(cfg.Mode))

	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           NewEngine(instance),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("服务启动", "addr", srv.Addr, "prefix", cfg.BasePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()

	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("关闭 HTTP 服务失败", "error", err)
	}
	if err := instance.Close(); err != nil {
		log.Error("关闭数据库失败", "error", err)
	}
	sentry.Flush(2 * time.Second)
}
