package main

import "study-log-backend/cmd"

func main() {
	cmd.Run()
}
