package main

import (
	"os"

	"sportmeet/core/logger"
	"sportmeet/core/server"
)

// @title Sportmeet API
// @version 1.0
// @description Sports meetups: events, registrations, event chat and live notifications.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
