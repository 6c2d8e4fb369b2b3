// Package logging builds the application logger and carries request-scoped
// loggers through context.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/lmittmann/tint"
)

// Options selects the output format and level for the application logger.
type Options struct {
	Format string // "text" or "json"
	Level  slog.Level
	// SentryEnabled adds a sentry slog handler so warnings and errors reach
	// the error tracker alongside stdout.
	SentryEnabled bool
}

// NewLogger builds the root slog logger: tinted text for local development,
// JSON for production, optionally fanned out to sentry.
func NewLogger(opts Options) *slog.Logger {
	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		base = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: opts.Level})
	default:
		base = tint.NewHandler(os.Stdout, &tint.Options{Level: opts.Level})
	}

	if !opts.SentryEnabled {
		return slog.New(base)
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelInfo},
	}.NewSentryHandler(context.Background())

	return slog.New(MultiHandler(base, sentryHandler))
}
