package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rulebook-agent/internal/audit"
	"github.com/jonathan/rulebook-agent/internal/auth"
	"github.com/jonathan/rulebook-agent/internal/catalog"
	"github.com/jonathan/rulebook-agent/internal/pipeline"
	"github.com/jonathan/rulebook-agent/internal/publish"
	"github.com/jonathan/rulebook-agent/internal/runstate"
	"github.com/jonathan/rulebook-agent/internal/types"
)

type fakeRunner struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (f *fakeRunner) Run(_ context.Context) (*pipeline.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	if f.calls < len(f.results) {
		err = f.results[f.calls]
	}
	f.calls++
	if err != nil {
		return nil, err
	}
	return &pipeline.RunResult{Processed: 1}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// auditRecorder captures posted run log entries.
type auditRecorder struct {
	mu      sync.Mutex
	entries []types.RunLogEntry
	server  *httptest.Server
}

func newAuditRecorder(t *testing.T) *auditRecorder {
	t.Helper()
	rec := &auditRecorder{}
	rec.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var entry types.RunLogEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
		rec.mu.Lock()
		rec.entries = append(rec.entries, entry)
		rec.mu.Unlock()
	}))
	t.Cleanup(rec.server.Close)
	return rec
}

func (r *auditRecorder) statuses() []types.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	statuses := make([]types.RunStatus, 0, len(r.entries))
	for _, entry := range r.entries {
		statuses = append(statuses, entry.RunStatus)
	}
	return statuses
}

func (r *auditRecorder) logger() *audit.Logger {
	authClient := auth.NewClient(auth.ModeAPIKey, "", auth.Credentials{}, "k", runstate.NewMemoryStore(), nil)
	return audit.NewLogger(r.server.URL, "Central Bank of Nigeria", authClient, nil)
}

func TestRunOnce_AuditBracketsSuccess(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{}
	s := New(runner, rec.logger(), time.Minute, time.Second)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, []types.RunStatus{types.RunStarted, types.RunSucceeded}, rec.statuses())
}

func TestRunOnce_AuditBracketsFailure(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{results: []error{errors.New("download failed")}}
	s := New(runner, rec.logger(), time.Minute, time.Second)

	require.Error(t, s.RunOnce(context.Background()))

	assert.Equal(t, []types.RunStatus{types.RunStarted, types.RunFailed}, rec.statuses())
	assert.Equal(t, "download failed", rec.entries[1].ErrorMessage)
}

func TestStart_UsesIntervalOnSuccess(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{}

	var pauses []time.Duration
	s := New(runner, rec.logger(), 5*time.Minute, time.Minute).WithSleep(
		func(ctx context.Context, d time.Duration) error {
			pauses = append(pauses, d)
			if len(pauses) >= 2 {
				return context.Canceled
			}
			return nil
		})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, 2, runner.callCount())
	assert.Equal(t, []time.Duration{5 * time.Minute, 5 * time.Minute}, pauses)
}

func TestStart_BacksOffOnClientError(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{results: []error{
		&publish.PublishError{Message: "rejected", StatusCode: http.StatusUnauthorized},
		nil,
	}}

	var pauses []time.Duration
	s := New(runner, rec.logger(), 5*time.Minute, time.Minute).WithSleep(
		func(ctx context.Context, d time.Duration) error {
			pauses = append(pauses, d)
			if len(pauses) >= 2 {
				return context.Canceled
			}
			return nil
		})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	// 4xx failure pauses for the shorter backoff; the following success
	// returns to the normal interval.
	assert.Equal(t, []time.Duration{time.Minute, 5 * time.Minute}, pauses)
}

func TestStart_ServerErrorKeepsInterval(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{results: []error{
		&catalog.FetchError{Message: "unreachable", StatusCode: http.StatusBadGateway},
	}}

	var pauses []time.Duration
	s := New(runner, rec.logger(), 5*time.Minute, time.Minute).WithSleep(
		func(ctx context.Context, d time.Duration) error {
			pauses = append(pauses, d)
			return context.Canceled
		})

	err := s.Start(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []time.Duration{5 * time.Minute}, pauses)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	rec := newAuditRecorder(t)
	runner := &fakeRunner{}
	s := New(runner, rec.logger(), time.Hour, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Let the first run complete, then cancel during the pause.
	require.Eventually(t, func() bool { return runner.callCount() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "401 publish error", err: &publish.PublishError{StatusCode: 401}, want: true},
		{name: "400 fetch error", err: &catalog.FetchError{StatusCode: 400}, want: true},
		{name: "wrapped 403", err: &publish.PublishError{Cause: &catalog.FetchError{StatusCode: 403}}, want: true},
		{name: "500", err: &catalog.FetchError{StatusCode: 500}, want: false},
		{name: "no status", err: errors.New("boom"), want: false},
		{name: "zero status", err: &publish.PublishError{Logical: true}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}
