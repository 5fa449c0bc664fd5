package ping

import (
	"log/slog"

	"taskview/internal/app"
	"taskview/internal/global/logger"
)

var log *slog.Logger

type ModulePing struct {
	app *app.App
}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init(a *app.App) {
	log = logger.New("Ping")
	p.app = a
}
