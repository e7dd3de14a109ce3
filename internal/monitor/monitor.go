// Package monitor forwards unexpected errors to the exception-monitoring service.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"bookingapi/internal/config"
)

// Reporter receives errors that callers could not handle.
type Reporter interface {
	CaptureError(ctx context.Context, err error, tags map[string]string)
	// Flush waits for buffered events and reports whether all were delivered.
	Flush(timeout time.Duration) bool
}

// New returns a Sentry reporter, or a no-op reporter when no DSN is configured.
func New(cfg config.SentryConfig) (Reporter, error) {
	if cfg.DSN == "" {
		return Noop{}, nil
	}
	return newSentry(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		SampleRate:  cfg.SampleRate,
	})
}

// SentryReporter reports through its own hub so tests and parallel apps do not share state.
type SentryReporter struct {
	hub *sentry.Hub
}

func newSentry(opts sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *SentryReporter) CaptureError(ctx context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := r.hub
	if h := sentry.GetHubFromContext(ctx); h != nil {
		hub = h
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hub.CaptureException(err)
	})
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

// Noop drops every error.
type Noop struct{}

func (Noop) CaptureError(context.Context, error, map[string]string) {}

func (Noop) Flush(time.Duration) bool { return true }
