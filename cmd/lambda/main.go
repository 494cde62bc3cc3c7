// Command lambda serves the economic calendar as an AWS Lambda function behind
// an API Gateway HTTP API.
package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/couchcryptid/econ-calendar-service/internal/adapter/forexfactory"
	kafkaadapter "github.com/couchcryptid/econ-calendar-service/internal/adapter/kafka"
	lambdaadapter "github.com/couchcryptid/econ-calendar-service/internal/adapter/lambda"
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

	filter, err := domain.FilterForProfile(cfg.FilterProfile)
	if err != nil {
		logger.Error("invalid filter profile", "error", err)
		os.Exit(1)
	}

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewWriter(cfg, logger)
	}

	p := pipeline.New(
		forexfactory.NewClient(cfg.SourceURL, cfg.UserAgent, cfg.FetchTimeout, metrics, logger),
		pipeline.NewTransformer(domain.NewExtractor(domain.DefaultSelectors(), filter, logger), logger),
		publisher,
		logger,
		metrics,
		pipeline.Options{Source: cfg.SourceLabel, Extended: cfg.ExtendedResponse},
	)

	lambda.Start(lambdaadapter.NewHandler(p, flush, logger).Handle)
}
