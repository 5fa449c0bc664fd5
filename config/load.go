package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 TASKVIEW_PORT、TASKVIEW_DATABASE_DRIVER
const EnvPrefix = "TASKVIEW"

var (
	instance *Config
	once     sync.Once
)

// DefaultSections 默认的十个班级及其学生 PIN
func DefaultSections() []Section {
	return []Section{
		{Name: "Grade 11 - ICT - CHRONICLES", PIN: "1111"},
		{Name: "Grade 11 - ICT - HAGGAI", PIN: "2222"},
		{Name: "Grade 12 - ICT - JUDE", PIN: "3333"},
		{Name: "Grade 12 - ICT - TITUS", PIN: "4444"},
		{Name: "Grade 11 - STEM - JOEL", PIN: "5555"},
		{Name: "Grade 12 - STEM - THESSALONIANS", PIN: "6666"},
		{Name: "Grade 11 - HUMSS - JUDGES", PIN: "7777"},
		{Name: "Grade 12 - HUMSS -LEVITICUS", PIN: "8888"},
		{Name: "Grade 11 - HE - MICAH", PIN: "9999"},
		{Name: "Grade 12 - HE - EZRA", PIN: "0000"},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "5000")
	v.SetDefault("prefix", "")
	v.SetDefault("mode", string(ModeDebug))

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "taskview.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.mysql.port", "3306")

	v.SetDefault("session.name", "taskview-session")
	v.SetDefault("session.max_age", 7*24*time.Hour)

	v.SetDefault("auth.teacher_pin", "1234")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.home", "static/uploads")
	v.SetDefault("storage.max_upload_mb", 16)
	v.SetDefault("storage.allowed_extensions", []string{"pdf", "doc", "docx", "txt", "jpg", "jpeg", "png", "zip"})
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.presign_expire", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age", 30)
}

// Load 按 默认值 -> 配置文件 -> .env -> 环境变量 的顺序加载配置
// path 为空时读取 CONFIG_PATH，文件不存在时忽略
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "process env")
	}

	if len(cfg.Sections) == 0 {
		cfg.Sections = DefaultSections()
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	if cfg.Mode != ModeRelease {
		cfg.Mode = ModeDebug
	}
	for i, ext := range cfg.Storage.AllowedExtensions {
		cfg.Storage.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return cfg, nil
}

// Init 加载全局配置，失败直接 panic
func Init() {
	once.Do(func() {
		cfg, err := Load("")
		if err != nil {
			panic(err)
		}
		instance = cfg
	})
}

// Get 获取全局配置，仅供进程入口使用，业务代码通过参数传递
func Get() *Config {
	Init()
	return instance
}
