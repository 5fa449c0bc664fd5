package module

import (
	"taskview/internal/app"
	"taskview/internal/module/common"
	"taskview/internal/module/ping"
	"taskview/internal/module/student"
	"taskview/internal/module/teacher"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init(a *app.App)
	InitRouter(r *gin.RouterGroup)
}

var factories []func() Module

func registerModule(f ...func() Module) {
	factories = append(factories, f...)
}

// Modules 每次返回新的模块实例，各个 engine 持有各自的 App
func Modules() []Module {
	modules := make([]Module, 0, len(factories))
	for _, f := range factories {
		modules = append(modules, f())
	}
	return modules
}

func init() {
	// Register your module here
	registerModule(
		func() Module { return &common.ModuleCommon{} },
		func() Module { return &ping.ModulePing{} },
		func() Module { return &teacher.ModuleTeacher{} },
		func() Module { return &student.ModuleStudent{} },
	)
}
