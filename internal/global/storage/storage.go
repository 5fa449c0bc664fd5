// Package storage 保存活动附件，支持本地目录和 S3 兼容对象存储
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"taskview/config"
)

var (
	// ErrNotExist 文件不存在，或文件名不是单个路径元素
	ErrNotExist = errors.New("attachment does not exist")
	// ErrExist 同名文件已存在，Save 不会覆盖
	ErrExist = errors.New("attachment already exists")
	// ErrNotAllowed 扩展名不在白名单内
	ErrNotAllowed = errors.New("attachment type not allowed")
)

// maxNameAttempts 同名冲突时时间戳最多顺延的秒数
const maxNameAttempts = 60

// Storage 附件存储，name 为 Filename 生成的文件名
type Storage interface {
	// Save 名字已被占用时返回 ErrExist
	Save(ctx context.Context, name string, r io.Reader) error
	// Remove 文件不存在时返回 ErrNotExist
	Remove(ctx context.Context, name string) error
	Download(ctx context.Context, name string) (*Download, error)
}

// Download 本地存储给出 Path，对象存储给出预签名 URL
type Download struct {
	Path string
	URL  string
}

// New 按配置创建存储
func New(ctx context.Context, cfg config.Storage) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Home)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, errors.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// SaveUnique 按 p 生成文件名保存，名字已被占用时把时间戳顺延一秒重试
func SaveUnique(ctx context.Context, s Storage, p *Policy, original string, now time.Time, r io.ReadSeeker) (string, error) {
	for i := 0; i < maxNameAttempts; i++ {
		name, ok := p.Filename(original, now.Add(time.Duration(i)*time.Second))
		if !ok {
			return "", ErrNotAllowed
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return "", errors.Wrap(err, "rewind attachment")
		}

		err := s.Save(ctx, name, r)
		switch {
		case errors.Is(err, ErrExist):
			continue
		case err != nil:
			return "", err
		}
		return name, nil
	}
	return "", errors.Errorf("no free name for %q after %d attempts", original, maxNameAttempts)
}

// validName 只接受单个路径元素，拒绝 ..、分隔符等
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return filepath.Base(name) == name
}
