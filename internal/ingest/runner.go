package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one recurring cycle. A returned error ends the cycle; it never
// stops the schedule.
type Job func(ctx context.Context) error

// Runner drives the discovery and backfill cycles on fixed intervals. A
// cycle that overruns its interval is skipped, not queued, so at most one
// instance of each job runs at a time.
type Runner struct {
	ctx    context.Context
	cron   *cron.Cron
	logger *slog.Logger
}

// NewRunner creates a stopped runner. ctx is passed to every job
// invocation; cancelling it makes in-flight cycles return early.
func NewRunner(ctx context.Context, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	return &Runner{
		ctx:    ctx,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cl))),
		logger: logger,
	}
}

// Add schedules job to run every interval once Start is called.
func (r *Runner) Add(name string, every time.Duration, job Job) error {
	spec := fmt.Sprintf("@every %s", every)
	_, err := r.cron.AddFunc(spec, func() {
		if err := job(r.ctx); err != nil {
			r.logger.Error("cycle failed", "job", name, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

// Start begins running the schedule in its own goroutine.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts the schedule and blocks until in-flight cycles finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// cronLogger adapts slog to the scheduler's logging interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
