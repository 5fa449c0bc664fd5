package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskview/config"
)

func newManager() *Manager {
	return NewManager(config.Session{
		Name:   "test-session",
		Secret: "0123456789abcdef0123456789abcdef",
		MaxAge: time.Hour,
	})
}

// roundTrip 保存会话后把 Set-Cookie 带到新请求上再读取
func roundTrip(t *testing.T, m *Manager, sess Session) Session {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, m.Save(w, r, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	return m.Load(next)
}

func TestRoundTrip(t *testing.T) {
	m := newManager()

	teacher := Teacher{ID: 7, Name: "Ms. Reyes", CurrentSection: "Grade 11 - HE - MICAH"}
	require.Equal(t, teacher, roundTrip(t, m, teacher))

	student := Student{Section: "Grade 12 - ICT - JUDE"}
	require.Equal(t, student, roundTrip(t, m, student))

	require.Equal(t, Anonymous{}, roundTrip(t, m, Anonymous{}))
}

func TestLoadWithoutCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, Anonymous{}, newManager().Load(r))
}

func TestLoadForeignCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, newManager().Save(w, r, Student{Section: "X"}))

	other := NewManager(config.Session{Name: "test-session", Secret: "another-secret-another-secret-12"})
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	require.Equal(t, Anonymous{}, other.Load(next))
}

func TestDecodeRejectsPartialState(t *testing.T) {
	require.Equal(t, Anonymous{}, decode(map[interface{}]interface{}{keyRole: roleStudent}))
	require.Equal(t, Anonymous{}, decode(map[interface{}]interface{}{keyRole: roleTeacher, keyTeacherName: "x"}))
	require.Equal(t, Anonymous{}, decode(map[interface{}]interface{}{keyRole: "admin"}))
}

func TestClear(t *testing.T) {
	m := newManager()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, m.Clear(w, r))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "test-session", cookies[0].Name)
	require.True(t, cookies[0].MaxAge < 0)
}
