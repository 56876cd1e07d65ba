package main

import "github.com/bdlove4you1/telygram-bot/internal/app"

func main() {
	app.Run()
}
