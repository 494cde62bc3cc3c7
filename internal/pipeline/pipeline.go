package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
	"github.com/couchcryptid/econ-calendar-service/internal/observability"
)

// Fetcher downloads the raw calendar markup.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Transformer converts calendar markup into extracted and filtered events.
type Transformer interface {
	Transform(ctx context.Context, markup string) (Result, error)
}

// Publisher fans a finished calendar out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, cal domain.Calendar) error
}

// Options shape the response body.
type Options struct {
	Source   string // label reported in the extended response
	Extended bool   // include source and raw/filtered counts
}

// Pipeline runs one fetch-extract-filter cycle per call. It holds no state
// between calls apart from the last error, which backs readiness.
type Pipeline struct {
	fetcher     Fetcher
	transformer Transformer
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	opts        Options

	mu      sync.Mutex
	lastErr error
}

// New creates a Pipeline. Pass a nil publisher to disable fan-out.
func New(f Fetcher, t Transformer, p Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if p != nil {
		metrics.PublishEnabled.Set(1)
	} else {
		metrics.PublishEnabled.Set(0)
	}
	return &Pipeline{
		fetcher:     f,
		transformer: t,
		publisher:   p,
		logger:      logger,
		metrics:     metrics,
		opts:        opts,
	}
}

// CheckReadiness returns the error of the most recent scrape, or nil if it
// succeeded or no scrape has run yet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastErr != nil {
		return fmt.Errorf("last scrape failed: %w", p.lastErr)
	}
	return nil
}

// Scrape fetches today's calendar page and returns the filtered calendar.
// Any fetch or parse failure is returned; row-level problems are not.
func (p *Pipeline) Scrape(ctx context.Context) (domain.Calendar, error) {
	start := time.Now()
	defer func() { p.metrics.ScrapeDuration.Observe(time.Since(start).Seconds()) }()

	markup, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.metrics.ScrapeRequests.WithLabelValues(observability.OutcomeFetchError).Inc()
		return domain.Calendar{}, p.fail(fmt.Errorf("fetch calendar: %w", err))
	}

	result, err := p.transformer.Transform(ctx, markup)
	if err != nil {
		p.metrics.ScrapeRequests.WithLabelValues(observability.OutcomeExtractError).Inc()
		return domain.Calendar{}, p.fail(fmt.Errorf("extract calendar: %w", err))
	}

	p.metrics.RowsSeen.Add(float64(result.Rows))
	p.metrics.RowsDropped.WithLabelValues("missing_field").Add(float64(result.Dropped))
	p.metrics.RowsDropped.WithLabelValues("row_error").Add(float64(result.Failed))
	p.metrics.EventsReturned.Add(float64(len(result.Filtered)))

	cal := domain.NewCalendar(domain.Today(), result.Filtered)
	if p.opts.Extended {
		cal = cal.WithSummary(p.opts.Source, len(result.Events))
	}

	p.publish(ctx, cal)

	p.metrics.ScrapeRequests.WithLabelValues(observability.OutcomeSuccess).Inc()
	p.succeed()

	p.logger.Info("calendar scraped",
		"date", cal.Date,
		"rows", result.Rows,
		"events", len(result.Events),
		"filtered", len(result.Filtered),
		"duration", time.Since(start),
	)
	return cal, nil
}

// publish sends the calendar downstream. Failures are logged and counted but
// never fail the scrape.
func (p *Pipeline) publish(ctx context.Context, cal domain.Calendar) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, cal); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Warn("publish calendar failed", "error", err, "events", len(cal.Events))
	}
}

func (p *Pipeline) fail(err error) error {
	p.mu.Lock()
	p.lastErr = err
	p.mu.Unlock()
	p.logger.Error("calendar scrape failed", "error", err)
	return err
}

func (p *Pipeline) succeed() {
	p.mu.Lock()
	p.lastErr = nil
	p.mu.Unlock()
}
