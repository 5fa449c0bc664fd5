package teacher_test

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"taskview/internal/global/response"
	"taskview/internal/model"
	"taskview/test"
)

type activityList struct {
	Activities  []model.Activity `json:"activities"`
	Section     string           `json:"section"`
	TeacherName string           `json:"teacher_name"`
}

type activityDetail struct {
	Activity  model.Activity `json:"activity"`
	CanDelete bool           `json:"can_delete"`
	IsTeacher bool           `json:"is_teacher"`
}

func listPath(section string) string {
	return "/teacher/activities/" + strings.ReplaceAll(section, " ", "%20")
}

func activities(t *testing.T, c *test.Client, section string) []model.Activity {
	t.Helper()
	w := c.Get(listPath(section))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return test.Decode[activityList](t, w).Activities
}

func TestRegister(t *testing.T) {
	env := test.NewEnv(t)
	c := env.Client(t)

	for _, name := range []string{"alice", "bob", "Alice"} {
		test.NoError(t, c.PostJSON("/teacher/register", map[string]string{
			"name": name, "teacher_pin": test.TeacherPIN, "password": "secret",
		}))
	}

	// 重名注册总是失败，与密码无关
	for _, password := range []string{"secret", "other"} {
		test.ErrorEqual(t, response.ErrTeacherExists, c.PostJSON("/teacher/register", map[string]string{
			"name": "alice", "teacher_pin": test.TeacherPIN, "password": password,
		}))
	}

	test.ErrorEqual(t, response.ErrInvalidTeacherPIN, c.PostJSON("/teacher/register", map[string]string{
		"name": "carol", "teacher_pin": "0000", "password": "secret",
	}))

	w := c.PostJSON("/teacher/register", map[string]string{
		"name": "", "teacher_pin": test.TeacherPIN, "password": "secret",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, env.App.DB.Model(&model.Teacher{}).Count(&count).Error)
	require.EqualValues(t, 3, count)

	var stored model.Teacher
	require.NoError(t, env.App.DB.Where("name = ?", "alice").First(&stored).Error)
	require.NotEqual(t, "secret", stored.Password)
}

func TestLogin(t *testing.T) {
	env := test.NewEnv(t)
	env.RegisterTeacher(t, "alice", "secret")

	c := env.Client(t)
	test.ErrorEqual(t, response.ErrInvalidCredentials, c.PostJSON("/teacher/login", map[string]string{
		"name": "alice", "password": "wrong",
	}))
	test.ErrorEqual(t, response.ErrInvalidCredentials, c.PostJSON("/teacher/login", map[string]string{
		"name": "nobody", "password": "secret",
	}))
	test.ErrorEqual(t, response.ErrInvalidCredentials, c.PostJSON("/teacher/login", map[string]string{
		"name": "ALICE", "password": "secret",
	}))

	// 未登录时教师页面不可访问
	test.ErrorEqual(t, response.ErrTeacherRequired, c.Get("/teacher/section-select"))

	test.NoError(t, c.PostJSON("/teacher/login", map[string]string{
		"name": "alice", "password": "secret",
	}))
	w := c.Get("/teacher/section-select")
	require.Equal(t, http.StatusOK, w.Code)
	body := test.Decode[map[string]any](t, w)
	require.Equal(t, "alice", body["teacher_name"])
	require.Len(t, body["sections"], 10)
}

func TestSectionAccess(t *testing.T) {
	env := test.NewEnv(t)
	c := env.RegisterTeacher(t, "alice", "secret")

	w := c.Get("/teacher/activities/Unknown%20Section")
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/teacher/section-select", w.Header().Get("Location"))

	w = c.Get(listPath(test.Section))
	require.Equal(t, http.StatusOK, w.Code)
	list := test.Decode[activityList](t, w)
	require.Equal(t, test.Section, list.Section)
	require.Empty(t, list.Activities)

	// 访问过的班级成为新建活动的默认班级
	w = c.Get("/teacher/add-activity")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, test.Section, test.Decode[map[string]any](t, w)["section"])

	w = c.GetHTML(listPath(test.Section))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Grade 11 - ICT - CHRONICLES")
}

func TestAddActivity(t *testing.T) {
	env := test.NewEnv(t)
	c := env.RegisterTeacher(t, "alice", "secret")

	w := c.PostMultipart("/teacher/add-activity", map[string]string{
		"section": test.Section,
		"subject": "Programming",
		"type":    "Quiz",
	}, &test.File{Name: "week 1 notes.pdf", Content: []byte("%PDF-1.4")})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.Equal(t, listPath(test.Section), w.Header().Get("Location"))

	list := activities(t, c, test.Section)
	require.Len(t, list, 1)
	a := list[0]
	require.Equal(t, "Programming", a.Subject)
	require.Equal(t, "Quiz", a.Type)
	require.Equal(t, "alice", a.TeacherName)
	require.True(t, a.HasAttachment())
	require.Regexp(t, `^\d{8}_\d{6}_week_1_notes\.pdf$`, a.AttachmentName())

	content, err := os.ReadFile(filepath.Join(env.App.Config.Storage.Home, a.AttachmentName()))
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(content))
}

func TestAddActivityDropsDisallowedAttachment(t *testing.T) {
	env := test.NewEnv(t)
	c := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, c, map[string]string{
		"section": test.Section,
		"subject": "Lab",
	}, &test.File{Name: "payload.exe", Content: []byte("MZ")})

	list := activities(t, c, test.Section)
	require.Len(t, list, 1)
	require.False(t, list[0].HasAttachment())
	require.Nil(t, list[0].Attachment)

	entries, err := os.ReadDir(env.App.Config.Storage.Home)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAddActivityRejects(t *testing.T) {
	env := test.NewEnv(t)

	anonymous := env.Client(t)
	w := anonymous.PostMultipart("/teacher/add-activity", map[string]string{"section": test.Section}, nil)
	test.ErrorEqual(t, response.ErrTeacherRequired, w)

	c := env.RegisterTeacher(t, "alice", "secret")
	w = c.PostMultipart("/teacher/add-activity", map[string]string{"section": "Nowhere"}, nil)
	test.ErrorEqual(t, response.ErrInvalidSection, w)

	// 测试配置的上限为 1 MiB
	big := bytes.Repeat([]byte("a"), 2<<20)
	w = c.PostMultipart("/teacher/add-activity", map[string]string{"section": test.Section}, &test.File{Name: "big.txt", Content: big})
	test.ErrorEqual(t, response.ErrPayloadTooLarge, w)

	var count int64
	require.NoError(t, env.App.DB.Model(&model.Activity{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestListNewestFirst(t *testing.T) {
	env := test.NewEnv(t)
	c := env.RegisterTeacher(t, "alice", "secret")

	for i := 1; i <= 3; i++ {
		test.PostActivity(t, c, map[string]string{
			"section": test.Section,
			"subject": fmt.Sprintf("Activity %d", i),
		}, nil)
	}
	test.PostActivity(t, c, map[string]string{
		"section": "Grade 12 - ICT - TITUS",
		"subject": "Elsewhere",
	}, nil)

	list := activities(t, c, test.Section)
	require.Len(t, list, 3)
	require.Equal(t, "Activity 3", list[0].Subject)
	require.Equal(t, "Activity 1", list[2].Subject)
}

func TestActivityDetail(t *testing.T) {
	env := test.NewEnv(t)
	alice := env.RegisterTeacher(t, "alice", "secret")
	bob := env.RegisterTeacher(t, "bob", "secret")

	test.PostActivity(t, alice, map[string]string{"section": test.Section, "subject": "Essay"}, nil)
	id := activities(t, alice, test.Section)[0].ID
	path := fmt.Sprintf("/teacher/activity/%d", id)

	w := alice.Get(path)
	require.Equal(t, http.StatusOK, w.Code)
	detail := test.Decode[activityDetail](t, w)
	require.Equal(t, "Essay", detail.Activity.Subject)
	require.True(t, detail.CanDelete)
	require.True(t, detail.IsTeacher)

	w = bob.Get(path)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, test.Decode[activityDetail](t, w).CanDelete)

	test.ErrorEqual(t, response.ErrActivityNotFound, alice.Get("/teacher/activity/9999"))
	test.ErrorEqual(t, response.ErrActivityNotFound, alice.Get("/teacher/activity/abc"))
}

func TestDeleteActivity(t *testing.T) {
	env := test.NewEnv(t)
	alice := env.RegisterTeacher(t, "alice", "secret")
	bob := env.RegisterTeacher(t, "bob", "secret")
	bob.Get(listPath(test.Section))

	test.PostActivity(t, alice, map[string]string{"section": test.Section, "subject": "Essay"},
		&test.File{Name: "rubric.docx", Content: []byte("docx")})
	a := activities(t, alice, test.Section)[0]
	stored := filepath.Join(env.App.Config.Storage.Home, a.AttachmentName())
	require.FileExists(t, stored)

	// 其他教师删除时静默跳转，记录和附件保留
	w := bob.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, listPath(test.Section), w.Header().Get("Location"))
	require.Len(t, activities(t, alice, test.Section), 1)
	require.FileExists(t, stored)

	w = alice.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, listPath(test.Section), w.Header().Get("Location"))
	require.Empty(t, activities(t, alice, test.Section))
	require.NoFileExists(t, stored)

	// 已删除的活动再次删除同样是空操作
	w = alice.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestDeleteActivityWithoutAttachment(t *testing.T) {
	env := test.NewEnv(t)
	alice := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, alice, map[string]string{"section": test.Section, "subject": "Reading"}, nil)
	keep := filepath.Join(env.App.Config.Storage.Home, "20240101_000000_keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("x"), 0o644))

	a := activities(t, alice, test.Section)[0]
	w := alice.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Empty(t, activities(t, alice, test.Section))

	entries, err := os.ReadDir(env.App.Config.Storage.Home)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDeleteActivityMissingAttachment(t *testing.T) {
	env := test.NewEnv(t)
	alice := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, alice, map[string]string{"section": test.Section, "subject": "Quiz"},
		&test.File{Name: "answers.pdf", Content: []byte("%PDF")})
	a := activities(t, alice, test.Section)[0]
	require.True(t, a.HasAttachment())
	require.NoError(t, os.Remove(filepath.Join(env.App.Config.Storage.Home, a.AttachmentName())))

	// 附件已不在磁盘上，记录照常删除
	w := alice.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, listPath(test.Section), w.Header().Get("Location"))
	require.Empty(t, activities(t, alice, test.Section))
}

func TestAddActivitySameNameKeepsBothFiles(t *testing.T) {
	const other = "Grade 12 - HE - EZRA"
	env := test.NewEnv(t)
	alice := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, alice, map[string]string{"section": test.Section, "subject": "First"},
		&test.File{Name: "notes.txt", Content: []byte("first")})
	test.PostActivity(t, alice, map[string]string{"section": other, "subject": "Second"},
		&test.File{Name: "notes.txt", Content: []byte("second")})

	a := activities(t, alice, test.Section)[0]
	b := activities(t, alice, other)[0]
	require.Regexp(t, `^\d{8}_\d{6}_notes\.txt$`, a.AttachmentName())
	require.Regexp(t, `^\d{8}_\d{6}_notes\.txt$`, b.AttachmentName())
	require.NotEqual(t, a.AttachmentName(), b.AttachmentName())

	home := env.App.Config.Storage.Home
	for name, want := range map[string]string{a.AttachmentName(): "first", b.AttachmentName(): "second"} {
		data, err := os.ReadFile(filepath.Join(home, name))
		require.NoError(t, err)
		require.Equal(t, want, string(data))
	}

	w := alice.Post(fmt.Sprintf("/teacher/delete-activity/%d", a.ID))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.NoFileExists(t, filepath.Join(home, a.AttachmentName()))

	data, err := os.ReadFile(filepath.Join(home, b.AttachmentName()))
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	w = alice.Get(fmt.Sprintf("/download/%s", b.AttachmentName()))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "second", w.Body.String())
}

func TestExportActivities(t *testing.T) {
	env := test.NewEnv(t)
	c := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, c, map[string]string{
		"section":  test.Section,
		"subject":  "Programming",
		"type":     "Project",
		"deadline": "Friday",
	}, nil)

	w := c.Get(listPath(test.Section) + "/export")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Activities")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, []string{"ID", "Subject", "Type", "Deadline", "Description", "Attachment", "Teacher", "Created"}, rows[0])
	require.Equal(t, "Programming", rows[1][1])
	require.Equal(t, "alice", rows[1][6])

	test.ErrorEqual(t, response.ErrInvalidSection, c.Get("/teacher/activities/Nowhere/export"))
}
