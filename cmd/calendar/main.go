// Command calendar serves today's USD Medium/High impact economic calendar
// over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/econ-calendar-service/internal/adapter/forexfactory"
	httpadapter "github.com/couchcryptid/econ-calendar-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/econ-calendar-service/internal/adapter/kafka"
	"github.com/couchcryptid/econ-calendar-service/internal/config"
	"github.com/couchcryptid/econ-calendar-service/internal/domain"
	"github.com/couchcryptid/econ-calendar-service/internal/observability"
	"github.com/couchcryptid/econ-calendar-service/internal/pipeline"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	flush, err := observability.InitErrorReporting(cfg, version)
	if err != nil {
		logger.Error("sentry init failed", "error", err)
		os.Exit(1)
	}
	defer flush()

	filter, err := domain.FilterForProfile(cfg.FilterProfile)
	if err != nil {
		logger.Error("invalid filter profile", "error", err)
		os.Exit(1)
	}

	client := forexfactory.NewClient(cfg.SourceURL, cfg.UserAgent, cfg.FetchTimeout, metrics, logger)
	extractor := domain.NewExtractor(domain.DefaultSelectors(), filter, logger)
	transformer := pipeline.NewTransformer(extractor, logger)

	// Optional fan-out (feature-flagged via KAFKA_BROKERS).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(client, transformer, publisher, logger, metrics, pipeline.Options{
		Source:   cfg.SourceLabel,
		Extended: cfg.ExtendedResponse,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
