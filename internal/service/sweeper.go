package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/festivo/notify-api/config"
	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/domain/model"
)

// Advancer runs one chunk cycle on a job. Implemented by JobService.
type Advancer interface {
	AdvanceJob(ctx context.Context, jobID string) (*model.AdvanceResult, error)
}

// SweepServiceOptions groups dependencies for SweepService.
type SweepServiceOptions struct {
	Repo     core.JobRepository // Required: job repository
	Advancer Advancer           // Required: advance driver
	Config   config.SweepConfig // Required: sweep configuration
	Logger   *slog.Logger       // Optional: structured logger
	// Clock is injectable for budget tests; defaults to time.Now.
	Clock func() time.Time
}

// SweepService drives stalled jobs forward. Each pass lists active jobs
// oldest first and runs one chunk cycle per job, stopping early when the
// time budget runs out. User advance calls and the sweep share the same
// driver, so they cannot disagree about semantics.
type SweepService struct {
	repo     core.JobRepository
	advancer Advancer
	cfg      config.SweepConfig
	clock    func() time.Time
	logger   *slog.Logger
}

// NewSweepService constructs a new SweepService.
func NewSweepService(opts SweepServiceOptions) (*SweepService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Advancer == nil {
		return nil, errors.New("Advancer is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "sweep_service")
		logger.Debug("SweepService initialized",
			"budget", opts.Config.Budget,
			"max_jobs", opts.Config.MaxJobs,
		)
	}

	return &SweepService{
		repo:     opts.Repo,
		advancer: opts.Advancer,
		cfg:      opts.Config,
		clock:    clock,
		logger:   logger,
	}, nil
}

// Sweep runs one pass and returns a per-job summary. Jobs the budget did not
// reach stay active and are picked up next tick; a pass that does nothing on
// a drained system is a cheap no-op.
func (s *SweepService) Sweep(ctx context.Context) (*model.SweepReport, error) {
	deadline := s.clock().Add(s.cfg.Budget)
	report := &model.SweepReport{}

	jobs, err := s.repo.ListActive(ctx, s.cfg.MaxJobs)
	if err != nil {
		return report, fmt.Errorf("list active jobs: %w", err)
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !s.clock().Before(deadline) {
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweep budget exhausted",
					"advanced", report.JobsAdvanced, "remaining", len(jobs)-len(report.Jobs))
			}
			break
		}

		result, advErr := s.advancer.AdvanceJob(ctx, job.ID)
		if advErr != nil {
			// One broken job must not stall the rest of the pass.
			if s.logger != nil {
				s.logger.WarnContext(ctx, "sweep advance failed", "job_id", job.ID, "err", advErr)
			}
			report.Jobs = append(report.Jobs, model.JobSweepResult{JobID: job.ID, Error: advErr.Error()})
			continue
		}

		report.Jobs = append(report.Jobs, model.JobSweepResult{
			JobID:     job.ID,
			Processed: result.Processed,
			Sent:      result.Sent,
			Failed:    result.Failed,
			Complete:  result.Complete,
		})
		if result.Processed > 0 || result.Complete {
			report.JobsAdvanced++
		}
		if result.Processed > 0 && !result.Complete {
			// One busy job is enough work for one pass; the rest of the
			// list waits for the next tick.
			if s.logger != nil {
				s.logger.InfoContext(ctx, "sweep yielding after busy job",
					"job_id", job.ID, "advanced", report.JobsAdvanced)
			}
			break
		}
	}

	return report, nil
}
