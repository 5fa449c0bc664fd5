package tools

// PanicOnErr 仅用于进程启动阶段
func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
