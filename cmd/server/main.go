// Command server is the entry point for the DevCamper API.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devcamper/internal/bootstrap"
	"devcamper/internal/config"
	"devcamper/internal/middleware"
	"devcamper/internal/observability"
	"devcamper/internal/server"

	"github.com/joho/godotenv"
)

// @title DevCamper API
// @version 1.0
// @description Bootcamp directory API with courses, reviews and user accounts.

// @contact.name API Support
// @contact.email support@devcamper.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := middleware.ConfigureLogger(cfg.Env, slog.LevelInfo)

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "devcamper-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	ctx := context.Background()
	db, redisClient, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{ApplySchema: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db, redisClient, server.Deps{})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server resource shutdown error", slog.Any("error", err))
		}
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("Tracing shutdown error", slog.Any("error", err))
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}
