package main

import (
	"log"

	"schooldash/internal"
	"schooldash/internal/config"
	"schooldash/internal/container"
	"schooldash/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Format)
	internal.DefaultLogger = logger
	defer logger.Sync()

	c, err := container.New(appConfig, logger)
	if err != nil {
		logger.Error("failed to build container: %v", err)
		return
	}

	server, err := ui.NewServer(c.Controller, c.UIOptions())
	if err != nil {
		logger.Error("failed to initialize dashboard: %v", err)
		return
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		logger.Error("dashboard server stopped: %v", err)
	}
}
