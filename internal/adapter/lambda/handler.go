// Package lambda adapts the calendar pipeline to API Gateway HTTP API events.
package lambda

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
	"github.com/couchcryptid/econ-calendar-service/internal/observability"
)

// Scraper produces today's filtered calendar.
type Scraper interface {
	Scrape(ctx context.Context) (domain.Calendar, error)
}

// Handler serves the calendar as a Lambda proxy integration.
type Handler struct {
	scraper Scraper
	flush   func()
	logger  *slog.Logger
}

// NewHandler creates a Handler. flush runs after every invocation so buffered
// error reports leave before the sandbox is frozen; nil disables it.
func NewHandler(scraper Scraper, flush func(), logger *slog.Logger) *Handler {
	if flush == nil {
		flush = func() {}
	}
	return &Handler{scraper: scraper, flush: flush, logger: logger}
}

// Handle runs one scrape. Scrape failures become a 500 response, not a
// returned error, so API Gateway relays the body to the caller.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	defer h.flush()

	logger := h.logger.With(
		"request_id", req.RequestContext.RequestID,
		"method", req.RequestContext.HTTP.Method,
		"path", req.RawPath,
	)

	cal, err := h.scraper.Scrape(ctx)
	if err != nil {
		logger.Error("calendar request failed", "error", err)
		observability.CaptureError(ctx, err)
		return respond(http.StatusInternalServerError, domain.NewScrapeFailure(err))
	}

	logger.Debug("calendar request served", "events", len(cal.Events))
	return respond(http.StatusOK, cal)
}

func respond(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Allow-Methods": "GET,OPTIONS",
		},
		Body: string(body),
	}, nil
}
