package config

import (
	"strings"
	"time"
)

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeRelease Mode = "release"
)

// Config 环境变量使用 TASKVIEW_ 前缀，嵌套字段以下划线连接，例如 TASKVIEW_STORAGE_MAX_UPLOAD_MB
type Config struct {
	Host     string
	Port     string
	Prefix   string
	Mode     Mode
	Database Database
	Session  Session
	Auth     Auth
	Sections []Section `ignored:"true"`
	Storage  Storage
	Log      Log `mapstructure:"Log"`
	Sentry   Sentry
}

type Database struct {
	Driver       string // sqlite | mysql
	Path         string // sqlite 数据库文件
	MaxOpenConns int    `split_words:"true" mapstructure:"max_open_conns"`
	MaxIdleConns int    `split_words:"true" mapstructure:"max_idle_conns"`
	Mysql        Mysql
}

type Mysql struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string `split_words:"true" mapstructure:"db_name"`
}

type Session struct {
	Name          string
	Secret        string
	EncryptionKey string        `split_words:"true" mapstructure:"encryption_key"`
	MaxAge        time.Duration `split_words:"true" mapstructure:"max_age"`
	Secure        bool
}

type Auth struct {
	TeacherPIN string `split_words:"true" mapstructure:"teacher_pin"`
}

// Section 班级名称与学生访问 PIN
type Section struct {
	Name string `mapstructure:"name"`
	PIN  string `mapstructure:"pin"`
}

type Storage struct {
	Driver            string // local | s3
	Home              string
	MaxUploadMB       int64    `split_words:"true" mapstructure:"max_upload_mb"`
	AllowedExtensions []string `split_words:"true" mapstructure:"allowed_extensions"`
	S3                S3
}

type S3 struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKey       string `split_words:"true" mapstructure:"access_key"`
	SecretAccessKey string `split_words:"true" mapstructure:"secret_key"`
	Prefix          string `mapstructure:"prefix"`
	UsePathStyle    bool   `split_words:"true" mapstructure:"path_style"`
	PresignExpire   int64  `split_words:"true" mapstructure:"presign_expire"` // 秒
}

type Log struct {
	FilePath   string `split_words:"true" mapstructure:"file_path"`   // 日志文件路径
	Level      string `mapstructure:"level"`                          // debug, info, warn, error
	MaxSize    int    `split_words:"true" mapstructure:"max_size"`    // MB
	MaxBackups int    `split_words:"true" mapstructure:"max_backups"` // 保留的旧日志文件数
	MaxAge     int    `split_words:"true" mapstructure:"max_age"`     // 天
	Compress   bool   `mapstructure:"compress"`
}

type Sentry struct {
	Dsn         string
	Environment string
	SampleRate  float64 `split_words:"true" mapstructure:"sample_rate"`
	Tracing     Tracing
}

type Tracing struct {
	DBSlowThresholdMs int `split_words:"true" mapstructure:"db_slow_threshold_ms"`
}

// MaxUploadBytes 上传请求体上限
func (s Storage) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// BasePath 规范化的路由前缀，例如 "" 或 "/taskview"
func (c *Config) BasePath() string {
	p := "/" + strings.Trim(c.Prefix, "/")
	if p == "/" {
		return ""
	}
	return p
}
