package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Local 把附件保存在本地目录
type Local struct {
	dir string
}

// NewLocal 确保目录存在
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("storage home is empty")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "create upload directory")
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(name string) (string, error) {
	if !validName(name) {
		return "", ErrNotExist
	}
	return filepath.Join(l.dir, name), nil
}

func (l *Local) Save(_ context.Context, name string, r io.Reader) error {
	p, err := l.path(name)
	if err != nil {
		return errors.Errorf("invalid attachment name %q", name)
	}

	dst, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return ErrExist
		}
		return errors.Wrap(err, "create attachment")
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(p)
		return errors.Wrap(err, "write attachment")
	}
	return errors.Wrap(dst.Close(), "close attachment")
}

func (l *Local) Remove(_ context.Context, name string) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return ErrNotExist
		}
		return errors.Wrap(err, "remove attachment")
	}
	return nil
}

func (l *Local) Download(_ context.Context, name string) (*Download, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, errors.Wrap(err, "stat attachment")
	}
	if info.IsDir() {
		return nil, ErrNotExist
	}
	return &Download{Path: p}, nil
}
