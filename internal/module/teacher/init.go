package teacher

import (
	"log/slog"

	"taskview/internal/app"
	"taskview/internal/global/logger"
)

var log *slog.Logger

type ModuleTeacher struct {
	app *app.App
}

func (m *ModuleTeacher) GetName() string {
	return "Teacher"
}

func (m *ModuleTeacher) Init(a *app.App) {
	log = logger.New("Teacher")
	m.app = a
}
