package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskview/config"
	"taskview/internal/global/sentry"
	"taskview/internal/global/sentry/tracing"
	"taskview/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// autoMigrateModels 需要自动迁移的模型
var autoMigrateModels = []any{
	&model.Teacher{},
	&model.Activity{},
}

// Open 按配置打开数据库并完成迁移
func Open(conf *config.Config) (*gorm.DB, error) {
	cfg := conf.Database
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{TranslateError: true}
	switch conf.Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if sentry.Enabled() {
		if err := db.Use(tracing.NewGormTracingPlugin(cfg.Driver, conf.Sentry.Tracing.DBSlowThresholdMs)); err != nil {
			return nil, errors.Wrap(err, "register tracing plugin")
		}
	}

	if err := db.AutoMigrate(autoMigrateModels...); err != nil {
		return nil, errors.Wrap(err, "auto migrate")
	}
	return db, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "create database directory")
			}
		}
		// 开启外键约束，等待写锁而不是立即返回 SQLITE_BUSY
		return sqlite.Open(cfg.Path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Mysql.Username,
			cfg.Mysql.Password,
			cfg.Mysql.Host,
			cfg.Mysql.Port,
			cfg.Mysql.DBName,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// IsDuplicate 判断是否违反唯一约束
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
