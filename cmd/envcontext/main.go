package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/env-context-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/env-context-service/internal/adapter/kafka"
	"github.com/couchcryptid/env-context-service/internal/aggregator"
	"github.com/couchcryptid/env-context-service/internal/config"
	"github.com/couchcryptid/env-context-service/internal/observability"
	"github.com/couchcryptid/env-context-service/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; deployed environments set variables directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	keys := aggregator.APIKeys{AirNow: cfg.AirNowAPIKey, EBird: cfg.EBirdAPIKey}
	if keys.AirNow == "" {
		logger.Info("AIRNOW_API_KEY not set, air quality and smoke disabled")
	}
	if keys.EBird == "" {
		logger.Info("EBIRD_API_KEY not set, bird sightings disabled")
	}

	agg := aggregator.New(aggregator.NewSources(cfg, logger), logger, metrics)

	var publisher pipeline.Publisher = pipeline.LogPublisher{Logger: logger}
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka publication enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("kafka publication disabled")
	}

	p := pipeline.New(agg, publisher, logger, metrics, pipeline.Options{
		Keys:        keys,
		Interval:    cfg.GatherInterval,
		MaxAttempts: cfg.PublishMaxAttempts,
	})

	api := httpadapter.NewAPI(agg, keys, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start gather pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
