// Package scheduler provides the monitor scheduler loop adapter.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/feru-app/beacon/internal/observability/metrics"
	"github.com/feru-app/beacon/internal/observability/statsd"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = 25
)

// MonitorTriggerer is the slice of the monitor service the runner needs.
type MonitorTriggerer interface {
	RunDue(ctx context.Context, limit int) (due, triggered, failed int, err error)
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Monitors  MonitorTriggerer // Required: monitor trigger service
	Interval  time.Duration    // Optional: sweep interval, default 30s
	BatchSize int              // Optional: max monitors per sweep, default 25
	Logger    *slog.Logger     // Optional: structured logger
	Metrics   statsd.Sink      // Optional: metric sink
}

// Runner periodically sweeps for due monitors and triggers them. Concurrency
// control lives in the monitor service's per-monitor locks; several replicas
// can run this loop at once.
type Runner struct {
	monitors  MonitorTriggerer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewRunner creates a new scheduler runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Monitors == nil {
		return nil, errors.New("monitor service is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Runner{
		monitors:  opts.Monitors,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
		logger:    opts.Logger.With("component", "monitor_scheduler"),
		metrics:   opts.Metrics,
	}, nil
}

// Run starts the scheduler loop and runs until the context is cancelled.
// A sweep error is logged and the loop keeps going.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "monitor scheduler starting",
		"interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "monitor scheduler stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep runs one RunDue pass and reports its outcome.
func (r *Runner) sweep(ctx context.Context) {
	start := time.Now()
	due, triggered, failed, err := r.monitors.RunDue(ctx, r.batchSize)
	elapsed := time.Since(start)

	metrics.EmitMonitorTick(r.metrics, due, triggered, failed, elapsed)

	switch {
	case err != nil:
		r.logger.ErrorContext(ctx, "monitor sweep failed", "error", err)
	case due > 0:
		r.logger.InfoContext(ctx, "monitor sweep finished",
			"due", due, "triggered", triggered, "failed", failed, "elapsed", elapsed)
	}
}
