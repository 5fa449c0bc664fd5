package student

import (
	"log/slog"

	"taskview/internal/app"
	"taskview/internal/global/logger"
)

var log *slog.Logger

type ModuleStudent struct {
	app *app.App
}

func (m *ModuleStudent) GetName() string {
	return "Student"
}

func (m *ModuleStudent) Init(a *app.App) {
	log = logger.New("Student")
	m.app = a
}
