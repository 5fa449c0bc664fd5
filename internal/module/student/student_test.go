package student_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"taskview/internal/global/response"
	"taskview/internal/model"
	"taskview/test"
)

const otherSection = "Grade 12 - HE - EZRA"

type activityList struct {
	Activities []model.Activity `json:"activities"`
	Section    string           `json:"section"`
}

func TestVerifyPIN(t *testing.T) {
	env := test.NewEnv(t)
	c := env.Client(t)

	test.ErrorEqual(t, response.ErrIncorrectPIN, c.PostJSON("/student/verify-pin", map[string]string{
		"section": test.Section, "pin": "1112",
	}))
	test.ErrorEqual(t, response.ErrIncorrectPIN, c.PostJSON("/student/verify-pin", map[string]string{
		"section": test.Section, "pin": " 1111",
	}))
	test.ErrorEqual(t, response.ErrInvalidSection, c.PostJSON("/student/verify-pin", map[string]string{
		"section": "Grade 13 - ICT - NOWHERE", "pin": "1111",
	}))
	test.ErrorEqual(t, response.ErrStudentRequired, c.Get("/student/activities"))

	w := c.PostJSON("/student/verify-pin", map[string]string{
		"section": test.Section, "pin": test.SectionPIN,
	})
	test.NoError(t, w)
	require.Equal(t, test.Section, test.Decode[map[string]any](t, w)["section"])

	w = c.Get("/student/activities")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, test.Section, test.Decode[activityList](t, w).Section)
}

func TestStudentCannotUseTeacherPages(t *testing.T) {
	env := test.NewEnv(t)
	teacher := env.RegisterTeacher(t, "alice", "secret")

	// 同一浏览器通过学生 PIN 后不再是教师
	test.NoError(t, teacher.PostJSON("/student/verify-pin", map[string]string{
		"section": test.Section, "pin": test.SectionPIN,
	}))
	test.ErrorEqual(t, response.ErrTeacherRequired, teacher.Get("/teacher/section-select"))
}

func TestStudentActivities(t *testing.T) {
	env := test.NewEnv(t)
	teacher := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, teacher, map[string]string{"section": test.Section, "subject": "Mine 1"}, nil)
	test.PostActivity(t, teacher, map[string]string{"section": otherSection, "subject": "Theirs"}, nil)
	test.PostActivity(t, teacher, map[string]string{"section": test.Section, "subject": "Mine 2"}, nil)

	student := env.Student(t, test.Section, test.SectionPIN)
	w := student.Get("/student/activities")
	require.Equal(t, http.StatusOK, w.Code)
	list := test.Decode[activityList](t, w).Activities
	require.Len(t, list, 2)
	require.Equal(t, "Mine 2", list[0].Subject)
	require.Equal(t, "Mine 1", list[1].Subject)

	w = student.GetHTML("/student/activities")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Mine 2")
	require.NotContains(t, w.Body.String(), "Theirs")
}

func TestStudentActivityDetail(t *testing.T) {
	env := test.NewEnv(t)
	teacher := env.RegisterTeacher(t, "alice", "secret")

	test.PostActivity(t, teacher, map[string]string{"section": test.Section, "subject": "Mine"}, nil)
	test.PostActivity(t, teacher, map[string]string{"section": otherSection, "subject": "Theirs"}, nil)

	var mine, theirs model.Activity
	require.NoError(t, env.App.DB.Where("subject = ?", "Mine").First(&mine).Error)
	require.NoError(t, env.App.DB.Where("subject = ?", "Theirs").First(&theirs).Error)

	student := env.Student(t, test.Section, test.SectionPIN)

	w := student.Get(fmt.Sprintf("/student/activity/%d", mine.ID))
	require.Equal(t, http.StatusOK, w.Code)
	detail := test.Decode[map[string]any](t, w)
	require.Equal(t, false, detail["can_delete"])
	require.Equal(t, false, detail["is_teacher"])

	// 猜中其他班级的活动 id 也只能得到 403
	test.ErrorEqual(t, response.ErrForbidden, student.Get(fmt.Sprintf("/student/activity/%d", theirs.ID)))
	test.ErrorEqual(t, response.ErrActivityNotFound, student.Get("/student/activity/9999"))
	test.ErrorEqual(t, response.ErrActivityNotFound, student.Get("/student/activity/x"))

	w = student.GetHTML(fmt.Sprintf("/student/activity/%d", theirs.ID))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Access denied", w.Body.String())
}
