// Package scheduler runs the ingestion pipeline on a fixed interval until
// stopped, with a shorter pause after client-error failures so a misconfigured
// credential or a rejected payload does not hammer the APIs at full cadence.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jonathan/rulebook-agent/internal/audit"
	"github.com/jonathan/rulebook-agent/internal/pipeline"
)

// Runner executes one ingestion pass.
type Runner interface {
	Run(ctx context.Context) (*pipeline.RunResult, error)
}

// Scheduler drives a Runner on a timer. Runs never overlap: the next pause
// starts only after the previous run returns.
type Scheduler struct {
	runner         Runner
	auditor        *audit.Logger
	interval       time.Duration
	clientErrPause time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// New creates a Scheduler. interval is the pause between runs;
// clientErrPause replaces it after a run fails with an HTTP 4xx.
func New(runner Runner, auditor *audit.Logger, interval, clientErrPause time.Duration) *Scheduler {
	return &Scheduler{
		runner:         runner,
		auditor:        auditor,
		interval:       interval,
		clientErrPause: clientErrPause,
		sleep:          sleepCtx,
	}
}

// WithSleep replaces the scheduler's pause function. Used by tests.
func (s *Scheduler) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Scheduler {
	s.sleep = sleep
	return s
}

// Start loops until ctx is cancelled. Run failures are logged and reported to
// the activity log but never stop the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		pause := s.interval

		if err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if IsClientError(err) {
				log.Printf("Run failed with a client error, pausing %s: %v", s.clientErrPause, err)
				pause = s.clientErrPause
			} else {
				log.Printf("Run failed: %v", err)
			}
		}

		log.Printf("Next run in %s", pause)
		if err := s.sleep(ctx, pause); err != nil {
			return err
		}
	}
}

// RunOnce executes a single run with audit bracketing: a start entry before,
// and a success or failure entry after.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.auditor.RunStarted(ctx)

	result, err := s.runner.Run(ctx)
	if err != nil {
		s.auditor.RunFailed(ctx, err)
		return err
	}

	if result.Bootstrap {
		log.Printf("First run: watermark seeded.")
	} else if result.Processed > 0 {
		log.Printf("Published %d circular(s).", result.Processed)
	}
	s.auditor.RunSucceeded(ctx)
	return nil
}

// IsClientError reports whether err carries an HTTP 4xx status anywhere in
// its chain. The chain is walked manually because an outer error may report a
// zero status while a wrapped one holds the real code.
func IsClientError(err error) bool {
	for err != nil {
		if coded, ok := err.(interface{ HTTPStatus() int }); ok {
			if status := coded.HTTPStatus(); status >= 400 && status < 500 {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
