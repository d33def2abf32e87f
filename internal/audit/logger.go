// Package audit reports run outcomes to the rulebook AI activity log.
// Reporting is best-effort: a failed audit call never fails the run it
// describes.
package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/rulebook-agent/internal/auth"
	"github.com/jonathan/rulebook-agent/internal/fetch"
	"github.com/jonathan/rulebook-agent/internal/types"
)

// timestampLayout is the ISO-8601 UTC format the activity log expects.
const timestampLayout = "2006-01-02T15:04:05Z"

// Logger posts run lifecycle events to the activity log endpoint.
type Logger struct {
	logURL string
	site   string
	auth   *auth.Client
	opts   *fetch.Options
	now    func() time.Time
}

// NewLogger creates a Logger. site names the monitored regulation source as
// the downstream displays it. opts may be nil for defaults.
func NewLogger(logURL, site string, authClient *auth.Client, opts *fetch.Options) *Logger {
	return &Logger{
		logURL: logURL,
		site:   site,
		auth:   authClient,
		opts:   opts,
		now:    time.Now,
	}
}

// WithClock replaces the logger's time source. Used by tests.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	l.now = now
	return l
}

// RunStarted records the beginning of an ingestion run.
func (l *Logger) RunStarted(ctx context.Context) {
	l.post(ctx, types.RunStarted, "")
}

// RunSucceeded records a run that completed without error.
func (l *Logger) RunSucceeded(ctx context.Context) {
	l.post(ctx, types.RunSucceeded, "")
}

// RunFailed records a run that ended in an error.
func (l *Logger) RunFailed(ctx context.Context, runErr error) {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	l.post(ctx, types.RunFailed, message)
}

func (l *Logger) post(ctx context.Context, status types.RunStatus, errorMessage string) {
	if l.logURL == "" {
		return
	}

	headers, err := l.auth.Headers(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit: skipping activity log entry: %v\n", err)
		return
	}

	opts := l.opts
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	merged := &fetch.Options{
		Timeout:   opts.Timeout,
		UserAgent: opts.UserAgent,
		Headers:   make(map[string]string, len(opts.Headers)+len(headers)),
	}
	for key, value := range opts.Headers {
		merged.Headers[key] = value
	}
	for key, value := range headers {
		merged.Headers[key] = value
	}

	entry := types.RunLogEntry{
		LastRunTime:    l.now().UTC().Format(timestampLayout),
		RunStatus:      status,
		RegulationSite: l.site,
		ErrorMessage:   errorMessage,
	}

	if err := fetch.PostJSON(ctx, l.logURL, entry, nil, merged); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to write activity log entry: %v\n", err)
	}
}
