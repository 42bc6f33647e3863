// Package sweeprunner runs the periodic job sweep on a cron schedule.
package sweeprunner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/festivo/notify-api/internal/domain/model"
)

// Sweeper is the subset of the sweep service the runner needs.
type Sweeper interface {
	Sweep(ctx context.Context) (*model.SweepReport, error)
}

// Options holds the dependencies for creating a Runner.
type Options struct {
	Sweeper Sweeper
	// Spec is the cron schedule, e.g. "@every 1m".
	Spec   string
	Logger *slog.Logger
}

// Runner schedules sweep passes with robfig/cron. Overlapping passes are
// suppressed: a tick that fires while the previous pass is still running is
// skipped rather than queued.
type Runner struct {
	sweeper Sweeper
	spec    string
	logger  *slog.Logger
	busy    chan struct{}
}

// NewRunner creates a new sweep runner with the given options.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	if opts.Spec == "" {
		opts.Spec = "@every 1m"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		sweeper: opts.Sweeper,
		spec:    opts.Spec,
		logger:  logger.With("component", "sweep-runner"),
		busy:    make(chan struct{}, 1),
	}, nil
}

// Run starts the cron schedule and blocks until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(r.spec, func() { r.tick(ctx) }); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "starting sweep runner", "spec", r.spec)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		r.logger.WarnContext(ctx, "sweep runner stop timed out")
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

func (r *Runner) tick(ctx context.Context) {
	select {
	case r.busy <- struct{}{}:
		defer func() { <-r.busy }()
	default:
		r.logger.WarnContext(ctx, "sweep pass still running, skipping tick")
		return
	}

	start := time.Now()
	report, err := r.sweeper.Sweep(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "sweep pass error", "err", err, "elapsed", time.Since(start))
		return
	}
	if report.JobsAdvanced > 0 {
		r.logger.InfoContext(ctx, "sweep pass complete",
			"jobs_advanced", report.JobsAdvanced, "jobs_touched", len(report.Jobs), "elapsed", time.Since(start))
	}
}
