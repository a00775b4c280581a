package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"csvviz/adapters/api"
	"csvviz/internal/config"
	"csvviz/internal/container"
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

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	handler, err := api.NewHandler(api.Dependencies{
		Service:        c.Service,
		Processor:      c.Processor,
		Files:          c.Files,
		Artifacts:      c.Artifacts,
		Exporter:       c.Exporter,
		MaxUploadBytes: appConfig.Storage.MaxUploadBytes,
		Logger:         c.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to create API handler: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Server.APIPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting csvviz API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("API shutdown: %v", err)
	}
	_ = c.Shutdown(shutdownCtx)
}
