// Command worker retries failed aggregate recomputes queued by the API.
package main

import (
	"fmt"
	"log"
	"log/slog"

	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/repository"
	"devcamper/internal/service"
	"devcamper/internal/tasks"
	"devcamper/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := middleware.ConfigureLogger(cfg.Env, slog.LevelInfo)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opt, err := tasks.RedisConnOpt(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}

	// retries run the same maintainer the API uses, without re-enqueueing
	aggregates := service.NewAggregateMaintainer(repository.NewAggregateRepository(db),
		service.WithAggregateLogger(logger))

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Logger:      workerLogger{logger},
	})

	logger.Info("worker starting", slog.String("redis", cfg.RedisURL))
	if err := srv.Run(worker.NewServeMux(aggregates, logger)); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}

// workerLogger adapts slog to asynq's logger interface.
type workerLogger struct {
	l *slog.Logger
}

func (w workerLogger) Debug(args ...interface{}) { w.l.Debug(fmt.Sprint(args...)) }
func (w workerLogger) Info(args ...interface{})  { w.l.Info(fmt.Sprint(args...)) }
func (w workerLogger) Warn(args ...interface{})  { w.l.Warn(fmt.Sprint(args...)) }
func (w workerLogger) Error(args ...interface{}) { w.l.Error(fmt.Sprint(args...)) }
func (w workerLogger) Fatal(args ...interface{}) { log.Fatal(args...) }
