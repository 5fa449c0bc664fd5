package main

import "taskview/cmd/server"

func main() {
	server.Init()
	server.Run()
}
