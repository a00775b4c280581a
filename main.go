package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"csvviz/internal/config"
	"csvviz/internal/container"
	"csvviz/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Initialize web server
	server := ui.NewServer()
	if err := server.Initialize(ui.Dependencies{
		Service:        appContainer.Service,
		Processor:      appContainer.Processor,
		Files:          appContainer.Files,
		Exporter:       appContainer.Exporter,
		StaticDir:      appConfig.Storage.StaticDir,
		MaxUploadBytes: appConfig.Storage.MaxUploadBytes,
		Logger:         appContainer.Logger,
	}); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting csvviz server on port %s", appConfig.Server.Port)
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
