package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data"
	domainjob "github.com/festivo/notify-api/internal/domain/job"
	"github.com/festivo/notify-api/internal/domain/model"
	apperrors "github.com/festivo/notify-api/internal/errors"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Repo      core.JobRepository  // Required: job repository
	Directory core.GuestDirectory // Required: event and guest lookups
	Executor  *DispatchExecutor   // Required: chunk dispatch
	// DefaultChunkSize is used when an advance request does not specify one.
	DefaultChunkSize int
	// DefaultLease is the claim lease duration.
	DefaultLease time.Duration
	Lease        domainjob.Lease // Optional: pre-normalised lease, overrides DefaultLease
	Logger       *slog.Logger    // Optional: structured logger
	// KickFirstAdvance controls whether Create schedules an immediate first
	// advance in the background. Disabled in tests for determinism.
	KickFirstAdvance bool
}

// JobService provides business logic for notification job operations.
//
// This service manages:
// - Job creation with an immutable recipient snapshot
// - The advance driver shared by user calls and the periodic sweep
// - Cooperative cancellation
// - Recipient listing, stats, and manual retry.
type JobService struct {
	repo             core.JobRepository
	directory        core.GuestDirectory
	executor         *DispatchExecutor
	lease            domainjob.Lease
	defaultChunkSize int
	kickFirstAdvance bool
	logger           *slog.Logger
}

const maxChunkSize = 500

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Directory == nil {
		return nil, errors.New("GuestDirectory is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("DispatchExecutor is required")
	}

	lease := opts.Lease
	if lease.IsZero() {
		var err error
		lease, err = domainjob.NewLease(opts.DefaultLease)
		if err != nil {
			return nil, fmt.Errorf("normalise claim lease: %w", err)
		}
	}

	chunkSize := opts.DefaultChunkSize
	if chunkSize < 1 {
		chunkSize = 25
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_service")
		logger.Debug("JobService initialized",
			"claim_lease", lease.Duration(),
			"default_chunk_size", chunkSize,
		)
	}

	return &JobService{
		repo:             opts.Repo,
		directory:        opts.Directory,
		executor:         opts.Executor,
		lease:            lease,
		defaultChunkSize: chunkSize,
		kickFirstAdvance: opts.KickFirstAdvance,
		logger:           logger,
	}, nil
}

// Create validates the request, resolves the eligible recipient snapshot,
// and creates the job. The snapshot is fixed at this point; later guest-list
// edits never change it. Creation returns immediately; dispatch happens
// through Advance and the periodic sweep.
func (s *JobService) Create(ctx context.Context, actor string, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid create job request")
	}

	event, err := s.directory.EventByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, data.ErrEventNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("resolve event: %w", err)
	}
	if event.OwnerID != actor {
		return nil, apperrors.Unauthorized("only the event owner may send notifications")
	}

	guests, err := s.directory.EligibleGuests(ctx, req.EventID, req.MessageType)
	if err != nil {
		return nil, fmt.Errorf("resolve eligible guests: %w", err)
	}
	guests = filterGuests(guests, req.GuestIDs)
	if len(guests) == 0 {
		return nil, apperrors.Validation("no eligible recipients for this message type")
	}

	job, err := s.repo.Create(ctx, core.CreateJobParams{
		Req:       req,
		CreatedBy: actor,
		Guests:    guests,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job created",
			"job_id", job.ID,
			"event_id", job.EventID,
			"message_type", job.MessageType,
			"total_recipients", job.TotalRecipients,
		)
	}

	if s.kickFirstAdvance {
		s.kickAdvance(ctx, job.ID)
	}

	return job, nil
}

// kickAdvance schedules a first advance so small jobs finish without waiting
// for a user call or the next sweep tick.
func (s *JobService) kickAdvance(ctx context.Context, jobID string) {
	bgCtx := context.WithoutCancel(ctx)
	go func() {
		advCtx, cancel := context.WithTimeout(bgCtx, time.Minute)
		defer cancel()
		if _, err := s.AdvanceJob(advCtx, jobID); err != nil && s.logger != nil {
			s.logger.WarnContext(advCtx, "background first advance failed", "job_id", jobID, "err", err)
		}
	}()
}

// filterGuests intersects the eligible guests with an explicit subset, when
// one was requested.
func filterGuests(guests []model.Guest, ids []string) []model.Guest {
	if len(ids) == 0 {
		return guests
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	filtered := guests[:0]
	for _, g := range guests {
		if want[g.ID] {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// Advance runs one chunk cycle on a job on behalf of a caller. Safe to call
// any number of times; a call that finds no claimable work reports the
// current completion state and changes nothing.
func (s *JobService) Advance(ctx context.Context, actor, jobID string, chunkSize int) (*model.AdvanceResult, error) {
	if _, err := s.authorizedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	if chunkSize < 0 || chunkSize > maxChunkSize {
		return nil, apperrors.ValidationField("chunk_size", "chunk size out of range")
	}
	return s.advance(ctx, jobID, chunkSize)
}

// AdvanceJob runs one chunk cycle with the default chunk size. The sweep uses
// this entry point; it acts on the system's behalf and skips authorization.
func (s *JobService) AdvanceJob(ctx context.Context, jobID string) (*model.AdvanceResult, error) {
	return s.advance(ctx, jobID, 0)
}

func (s *JobService) advance(ctx context.Context, jobID string, chunkSize int) (*model.AdvanceResult, error) {
	if chunkSize < 1 {
		chunkSize = s.defaultChunkSize
	}
	claim, err := s.repo.ClaimNextChunk(ctx, core.ClaimChunkParams{
		JobID:        jobID,
		MaxSize:      chunkSize,
		LeaseSeconds: s.lease.Seconds(),
	})
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job not found")
		}
		return nil, fmt.Errorf("claim chunk: %w", err)
	}

	if len(claim.Entries) == 0 {
		return &model.AdvanceResult{Complete: claim.Status.Terminal()}, nil
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job for dispatch: %w", err)
	}

	outcome, err := s.executor.Dispatch(ctx, job, claim.Entries)
	if err != nil {
		return nil, fmt.Errorf("dispatch chunk: %w", err)
	}

	if countErr := s.repo.AddJobCounts(ctx, core.AddCountsParams{
		JobID:  jobID,
		Sent:   outcome.Sent,
		Failed: outcome.Failed,
	}); countErr != nil {
		if errors.Is(countErr, data.ErrCounterOverflow) {
			// Counter overflow means the processor double-counted. That is a
			// fault in this code, not in any recipient; fail the whole job.
			if failErr := s.repo.MarkJobFailed(ctx, jobID, countErr.Error()); failErr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "failed to mark job failed after counter overflow",
					"job_id", jobID, "err", failErr)
			}
			return nil, apperrors.Wrap(countErr, apperrors.ErrCodeInternal, "job counters overflowed")
		}
		return nil, fmt.Errorf("add job counts: %w", countErr)
	}

	status, err := s.repo.FinalizeIfDrained(ctx, core.FinalizeParams{
		JobID:        jobID,
		LeaseSeconds: s.lease.Seconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("finalize job: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "chunk processed",
			"job_id", jobID,
			"claimed", len(claim.Entries),
			"sent", outcome.Sent,
			"failed", outcome.Failed,
			"skipped", outcome.Skipped,
			"lost", outcome.Lost,
			"status", status,
		)
	}

	return &model.AdvanceResult{
		Processed: outcome.Processed(),
		Sent:      outcome.Sent,
		Failed:    outcome.Failed,
		Complete:  status.Terminal(),
	}, nil
}

// RequestCancel asks a job to stop at the next claim boundary. In-flight
// sends are never interrupted; entries still pending are never dispatched.
func (s *JobService) RequestCancel(ctx context.Context, actor, jobID string) (*model.Job, error) {
	if _, err := s.authorizedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}

	flipped, err := s.repo.RequestCancel(ctx, jobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job not found")
		}
		return nil, fmt.Errorf("request cancel: %w", err)
	}
	if !flipped {
		return nil, apperrors.Conflict("job is already in a terminal state")
	}

	// An idle job has no in-flight chunk to observe the flag, so finalize
	// eagerly instead of waiting for the next sweep.
	if _, finErr := s.repo.FinalizeIfDrained(ctx, core.FinalizeParams{
		JobID:        jobID,
		LeaseSeconds: s.lease.Seconds(),
	}); finErr != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "eager cancel finalize failed", "job_id", jobID, "err", finErr)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "cancel requested", "job_id", jobID)
	}
	return s.getJob(ctx, jobID)
}

// GetByID fetches one job for an authorized caller.
func (s *JobService) GetByID(ctx context.Context, actor, jobID string) (*model.Job, error) {
	return s.authorizedJob(ctx, actor, jobID)
}

// ListByEvent lists an event's jobs for its owner.
func (s *JobService) ListByEvent(ctx context.Context, actor string, opts core.JobListOptions) ([]*model.Job, error) {
	event, err := s.directory.EventByID(ctx, opts.EventID)
	if err != nil {
		if errors.Is(err, data.ErrEventNotFound) {
			return nil, apperrors.NotFound("event not found")
		}
		return nil, fmt.Errorf("resolve event: %w", err)
	}
	if event.OwnerID != actor {
		return nil, apperrors.Unauthorized("only the event owner may list its jobs")
	}
	return s.repo.ListByEvent(ctx, opts)
}

// ListRecipients returns a page of a job's recipient snapshot.
func (s *JobService) ListRecipients(ctx context.Context, actor string, opts model.RecipientListOptions) ([]*model.RecipientEntry, error) {
	if _, err := s.authorizedJob(ctx, actor, opts.JobID); err != nil {
		return nil, err
	}
	return s.repo.ListRecipients(ctx, opts)
}

// Stats returns recipient counts per state for one job.
func (s *JobService) Stats(ctx context.Context, actor, jobID string) (*model.JobStats, error) {
	if _, err := s.authorizedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, jobID)
}

// RetryRecipient resets one retryably-failed entry to pending and reopens the
// job. The entry is picked up by the next advance or sweep.
func (s *JobService) RetryRecipient(ctx context.Context, actor, jobID, guestID string) (*model.Job, error) {
	if _, err := s.authorizedJob(ctx, actor, jobID); err != nil {
		return nil, err
	}

	if _, err := s.repo.RetryRecipient(ctx, jobID, guestID); err != nil {
		switch {
		case errors.Is(err, data.ErrRecipientNotFound):
			return nil, apperrors.NotFound("recipient entry not found")
		case errors.Is(err, data.ErrRecipientNotRetryable):
			return nil, apperrors.Conflict("recipient entry is not retryable")
		default:
			return nil, fmt.Errorf("retry recipient: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "recipient retry scheduled", "job_id", jobID, "guest_id", guestID)
	}
	return s.getJob(ctx, jobID)
}

// authorizedJob loads a job and checks the actor may act on it. The creator
// and the event owner are both allowed.
func (s *JobService) authorizedJob(ctx context.Context, actor, jobID string) (*model.Job, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.CreatedBy == actor {
		return job, nil
	}

	event, err := s.directory.EventByID(ctx, job.EventID)
	if err == nil && event.OwnerID == actor {
		return job, nil
	}
	return nil, apperrors.Unauthorized("not allowed to act on this job")
}

func (s *JobService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFound("job not found")
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}
