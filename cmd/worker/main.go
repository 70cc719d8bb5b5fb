package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/arunahq/backend-estimate/internal/config"
	"github.com/arunahq/backend-estimate/internal/db"
	"github.com/arunahq/backend-estimate/internal/estimate"
	"github.com/arunahq/backend-estimate/internal/obs"
	"github.com/arunahq/backend-estimate/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "aruna"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, "estimate-worker")
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	connOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	deliverer := &queue.WebhookDeliverer{
		Estimates: &estimate.PGStore{Pool: pool},
		Endpoint:  cfg.WebhookEndpoint,
		Secret:    cfg.WebhookSecret,
		Client:    &http.Client{Timeout: cfg.WebhookTimeout},
		Logger:    logger,
	}
	if cfg.WebhookEndpoint == "" {
		logger.Warn().Msg("no webhook endpoint configured, estimate:saved tasks will be dropped")
	}

	srv := asynq.NewServer(connOpt, asynq.Config{
		Concurrency: cfg.WorkerConcurrency,
		Queues:      map[string]int{cfg.WorkerQueue: 1},
		Logger:      asynqLogger{logger: logger},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskEstimateSaved, deliverer.HandleEstimateSaved)

	logger.Info().Str("queue", cfg.WorkerQueue).Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger adapts zerolog to asynq's logging interface.
type asynqLogger struct {
	logger zerolog.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
