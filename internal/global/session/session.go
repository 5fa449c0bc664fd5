// Package session 把 cookie 中的会话解码为 Anonymous、Teacher、Student 三种之一
package session

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"taskview/config"
)

const (
	roleTeacher = "teacher"
	roleStudent = "student"

	keyRole           = "role"
	keyTeacherID      = "teacher_id"
	keyTeacherName    = "teacher_name"
	keyCurrentSection = "current_section"
	keyStudentSection = "student_section"
)

// Session 只有下面三种实现
type Session interface {
	isSession()
}

type Anonymous struct{}

type Teacher struct {
	ID             uint
	Name           string
	CurrentSection string // 最近浏览的班级，可能为空
}

type Student struct {
	Section string // 已通过 PIN 校验的班级
}

func (Anonymous) isSession() {}
func (Teacher) isSession()   {}
func (Student) isSession()   {}

type Manager struct {
	store sessions.Store
	name  string
}

// NewManager 未配置密钥时生成随机密钥，进程重启后旧 cookie 失效
func NewManager(cfg config.Session) *Manager {
	hashKey := []byte(cfg.Secret)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
	}
	keyPairs := [][]byte{hashKey}
	if n := len(cfg.EncryptionKey); n == 16 || n == 24 || n == 32 {
		keyPairs = append(keyPairs, []byte(cfg.EncryptionKey))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	name := cfg.Name
	if name == "" {
		name = "taskview-session"
	}
	return &Manager{store: store, name: name}
}

// Load 读取当前会话，cookie 缺失、损坏或字段不完整时返回 Anonymous
func (m *Manager) Load(r *http.Request) Session {
	s, err := m.store.Get(r, m.name)
	if err != nil || s.IsNew {
		return Anonymous{}
	}
	return decode(s.Values)
}

// Save 用给定会话整体替换 cookie 内容
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, sess Session) error {
	s, _ := m.store.Get(r, m.name)
	s.Values = encode(sess)
	return errors.Wrap(s.Save(r, w), "save session")
}

// Clear 删除会话 cookie
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, m.name)
	s.Values = map[interface{}]interface{}{}
	s.Options.MaxAge = -1
	return errors.Wrap(s.Save(r, w), "clear session")
}

func encode(sess Session) map[interface{}]interface{} {
	values := map[interface{}]interface{}{}
	switch s := sess.(type) {
	case Teacher:
		values[keyRole] = roleTeacher
		values[keyTeacherID] = s.ID
		values[keyTeacherName] = s.Name
		values[keyCurrentSection] = s.CurrentSection
	case Student:
		values[keyRole] = roleStudent
		values[keyStudentSection] = s.Section
	}
	return values
}

func decode(values map[interface{}]interface{}) Session {
	role, _ := values[keyRole].(string)
	switch role {
	case roleTeacher:
		id, _ := values[keyTeacherID].(uint)
		name, _ := values[keyTeacherName].(string)
		if id == 0 || name == "" {
			return Anonymous{}
		}
		current, _ := values[keyCurrentSection].(string)
		return Teacher{ID: id, Name: name, CurrentSection: current}
	case roleStudent:
		section, _ := values[keyStudentSection].(string)
		if section == "" {
			return Anonymous{}
		}
		return Student{Section: section}
	}
	return Anonymous{}
}
