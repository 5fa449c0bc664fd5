package common

import (
	"log/slog"

	"taskview/internal/app"
	"taskview/internal/global/logger"
)

var log *slog.Logger

type ModuleCommon struct {
	app *app.App
}

func (m *ModuleCommon) GetName() string {
	return "Common"
}

func (m *ModuleCommon) Init(a *app.App) {
	log = logger.New("Common")
	m.app = a
}
