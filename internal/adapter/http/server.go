package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/econ-calendar-service/internal/domain"
	"github.com/couchcryptid/econ-calendar-service/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// Scraper produces today's filtered calendar.
type Scraper interface {
	Scrape(ctx context.Context) (domain.Calendar, error)
}

// Server exposes the calendar endpoint alongside health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	scraper    Scraper
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/calendar, /calendar, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, scraper Scraper, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		scraper: scraper,
		logger:  logger,
	}

	// The calendar routes answer any method.
	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/calendar", s.handleCalendar)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(requestIDHeader, requestID)
	logger := s.logger.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)

	cal, err := s.scraper.Scrape(r.Context())
	if err != nil {
		logger.Error("calendar request failed", "error", err)
		observability.CaptureError(r.Context(), err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, domain.NewScrapeFailure(err))
		return
	}

	logger.Debug("calendar request served", "events", len(cal.Events))
	sharedobs.WriteJSON(w, http.StatusOK, cal)
}
