package main

import "attendance-lms/cmd/server"

func main() {
	server.Init()
	server.Run()
}
