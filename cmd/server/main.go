package main

import (
	"os"

	"portfolio-chat/backend/internal/app"
)

// @title                   Portfolio Chat Relay API
// @version                 1.0
// @description             Streams portfolio chat and annotation turns from the upstream model as Server-Sent Events.
// @host                    localhost:3000
// @BasePath                /api
func main() {
	os.Exit(app.Run())
}
