package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scrape outcome label values.
const (
	OutcomeSuccess      = "success"
	OutcomeFetchError   = "fetch_error"
	OutcomeExtractError = "extract_error"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the calendar service.
type Metrics struct {
	ScrapeRequests *prometheus.CounterVec // labels: outcome={success,fetch_error,extract_error}
	ScrapeDuration prometheus.Histogram
	FetchDuration  prometheus.Histogram

	// Row-level extraction metrics.
	RowsSeen       prometheus.Counter
	RowsDropped    *prometheus.CounterVec // labels: reason={missing_field,row_error}
	EventsReturned prometheus.Counter

	// Kafka fan-out metrics.
	PublishErrors  prometheus.Counter
	PublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ScrapeRequests,
		m.ScrapeDuration,
		m.FetchDuration,
		m.RowsSeen,
		m.RowsDropped,
		m.EventsReturned,
		m.PublishErrors,
		m.PublishEnabled,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScrapeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econ_calendar",
			Name:      "scrape_requests_total",
			Help:      "Calendar scrapes by outcome.",
		}, []string{"outcome"}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "econ_calendar",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete fetch-extract-filter cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "econ_calendar",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the outbound calendar page request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econ_calendar",
			Name:      "rows_seen_total",
			Help:      "Calendar rows matched by the row selectors.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "econ_calendar",
			Name:      "rows_dropped_total",
			Help:      "Calendar rows not turned into events, by reason.",
		}, []string{"reason"}),
		EventsReturned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econ_calendar",
			Name:      "events_returned_total",
			Help:      "Events that passed the filter and were returned.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "econ_calendar",
			Name:      "publish_errors_total",
			Help:      "Failed attempts to publish a calendar to Kafka.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "econ_calendar",
			Name:      "publish_enabled",
			Help:      "1 when Kafka publishing is enabled, 0 otherwise.",
		}),
	}
}
