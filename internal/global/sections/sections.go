// Package sections 保存班级名称与学生 PIN 的只读映射，启动时构建一次后按参数传递
package sections

import (
	"github.com/pkg/errors"

	"taskview/config"
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrWrongPIN       = errors.New("wrong section pin")
)

type Registry struct {
	names []string
	pins  map[string]string
}

// NewRegistry 按给定顺序构建，名称不能为空或重复
func NewRegistry(list []config.Section) (*Registry, error) {
	r := &Registry{
		names: make([]string, 0, len(list)),
		pins:  make(map[string]string, len(list)),
	}
	for _, s := range list {
		if s.Name == "" {
			return nil, errors.New("section name must not be empty")
		}
		if _, ok := r.pins[s.Name]; ok {
			return nil, errors.Errorf("duplicate section %q", s.Name)
		}
		r.names = append(r.names, s.Name)
		r.pins[s.Name] = s.PIN
	}
	return r, nil
}

// Names 返回副本，调用方可以随意修改
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Registry) Exists(name string) bool {
	_, ok := r.pins[name]
	return ok
}

// Verify 先校验班级存在，再做精确字符串比较
func (r *Registry) Verify(name, pin string) error {
	expected, ok := r.pins[name]
	if !ok {
		return ErrUnknownSection
	}
	if pin != expected {
		return ErrWrongPIN
	}
	return nil
}
