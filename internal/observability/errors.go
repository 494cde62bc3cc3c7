package observability

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/couchcryptid/econ-calendar-service/internal/config"
)

// InitErrorReporting configures Sentry when SENTRY_DSN is set. The returned
// function flushes buffered events and must be called before exit. Without a
// DSN it is a no-op and CaptureError drops events.
func InitErrorReporting(cfg *config.Config, release string) (func(), error) {
	if cfg.SentryDSN == "" {
		return func() {}, nil
	}

	//nolint:exhaustruct // other fields are optional
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     release,
		SampleRate:  cfg.SentrySampleRate,
	})
	if err != nil {
		return func() {}, err
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureError reports err to the hub bound to ctx, or the global hub.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
