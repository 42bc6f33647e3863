package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data"
	"github.com/festivo/notify-api/internal/domain/model"
)

// DispatchExecutorOptions groups dependencies for DispatchExecutor.
type DispatchExecutorOptions struct {
	Repo      core.JobRepository // Required: job repository
	Directory core.GuestDirectory
	Sender    core.MessageSender
	Audit     core.AuditRepository
	Cache     core.ContactCache // Optional: contact cache
	CacheTTL  time.Duration
	// Parallelism is the number of concurrent sends per chunk.
	Parallelism int
	Logger      *slog.Logger
}

// DispatchExecutor sends one claimed chunk. Each entry is resolved, sent,
// marked terminal, and audited independently; one bad recipient never affects
// the rest of the chunk.
type DispatchExecutor struct {
	repo        core.JobRepository
	directory   core.GuestDirectory
	sender      core.MessageSender
	audit       core.AuditRepository
	cache       core.ContactCache
	cacheTTL    time.Duration
	parallelism int
	logger      *slog.Logger
}

// ChunkOutcome tallies the terminal states reached by one chunk.
type ChunkOutcome struct {
	Sent    int
	Failed  int
	Skipped int
	// Lost counts entries whose lease expired mid-send; their outcome was
	// dropped and another invocation owns them now.
	Lost int
}

// Processed returns the number of entries that reached a terminal state.
func (o ChunkOutcome) Processed() int {
	return o.Sent + o.Failed + o.Skipped
}

// NewDispatchExecutor constructs a new DispatchExecutor.
func NewDispatchExecutor(opts DispatchExecutorOptions) (*DispatchExecutor, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Directory == nil {
		return nil, errors.New("GuestDirectory is required")
	}
	if opts.Sender == nil {
		return nil, errors.New("MessageSender is required")
	}
	if opts.Audit == nil {
		return nil, errors.New("AuditRepository is required")
	}
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "dispatch_executor")
	}

	return &DispatchExecutor{
		repo:        opts.Repo,
		directory:   opts.Directory,
		sender:      opts.Sender,
		audit:       opts.Audit,
		cache:       opts.Cache,
		cacheTTL:    cacheTTL,
		parallelism: parallelism,
		logger:      logger,
	}, nil
}

// Dispatch processes one claimed chunk and returns the tally of terminal
// outcomes. It never returns an error for recipient-level failures; only the
// event lookup, which the whole chunk depends on, can fail the call.
func (e *DispatchExecutor) Dispatch(ctx context.Context, job *model.Job, entries []model.RecipientEntry) (ChunkOutcome, error) {
	var outcome ChunkOutcome
	if len(entries) == 0 {
		return outcome, nil
	}

	event, err := e.directory.EventByID(ctx, job.EventID)
	if err != nil {
		return outcome, fmt.Errorf("resolve event for dispatch: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for _, entry := range entries {
		g.Go(func() error {
			result := e.dispatchOne(gctx, job, event, entry)
			mu.Lock()
			switch result {
			case model.RecipientStateSent:
				outcome.Sent++
			case model.RecipientStateFailed:
				outcome.Failed++
			case model.RecipientStateSkipped:
				outcome.Skipped++
			default:
				outcome.Lost++
			}
			mu.Unlock()
			return nil
		})
	}
	// Workers report outcomes through the tally, never through errors.
	_ = g.Wait()

	return outcome, nil
}

// dispatchOne processes a single entry and returns the terminal state it
// reached, or "" when the claim was lost.
func (e *DispatchExecutor) dispatchOne(ctx context.Context, job *model.Job, event *model.Event, entry model.RecipientEntry) model.RecipientState {
	contact, err := e.resolveContact(ctx, entry.GuestID)
	if err != nil {
		if errors.Is(err, core.ErrNoContact) {
			return e.mark(ctx, core.RecipientOutcomeParams{
				JobID:   job.ID,
				GuestID: entry.GuestID,
				State:   model.RecipientStateSkipped,
				ErrMsg:  "no contact channel",
			})
		}
		// Directory unavailable. Leave the entry claimed; the lease will
		// expire and a later invocation retries it.
		if e.logger != nil {
			e.logger.WarnContext(ctx, "contact resolution failed, leaving entry claimed",
				"job_id", job.ID, "guest_id", entry.GuestID, "err", err)
		}
		return ""
	}

	sendErr := e.sender.Send(ctx, core.SendRequest{
		JobID:       job.ID,
		MessageType: job.MessageType,
		EventName:   event.Name,
		Contact:     *contact,
	})
	if sendErr == nil {
		return e.mark(ctx, core.RecipientOutcomeParams{
			JobID:   job.ID,
			GuestID: entry.GuestID,
			State:   model.RecipientStateSent,
		})
	}

	retryable, reason := classifySendError(sendErr)
	return e.mark(ctx, core.RecipientOutcomeParams{
		JobID:     job.ID,
		GuestID:   entry.GuestID,
		State:     model.RecipientStateFailed,
		Retryable: retryable,
		ErrMsg:    reason,
	})
}

// mark writes the terminal entry state and the matching audit record.
func (e *DispatchExecutor) mark(ctx context.Context, params core.RecipientOutcomeParams) model.RecipientState {
	if err := e.repo.MarkRecipient(ctx, params); err != nil {
		if errors.Is(err, data.ErrClaimLost) {
			if e.logger != nil {
				e.logger.WarnContext(ctx, "claim lost before outcome write, dropping result",
					"job_id", params.JobID, "guest_id", params.GuestID, "state", params.State)
			}
			return ""
		}
		if e.logger != nil {
			e.logger.WarnContext(ctx, "failed to record recipient outcome",
				"job_id", params.JobID, "guest_id", params.GuestID, "err", err)
		}
		return ""
	}

	if auditErr := e.audit.Append(ctx, core.AuditRecord{
		JobID:   params.JobID,
		GuestID: params.GuestID,
		Channel: "sms",
		Outcome: string(params.State),
		Detail:  params.ErrMsg,
	}); auditErr != nil && e.logger != nil {
		// The entry state is authoritative; a dropped audit row is logged
		// but does not undo the outcome.
		e.logger.WarnContext(ctx, "failed to append dispatch audit",
			"job_id", params.JobID, "guest_id", params.GuestID, "err", auditErr)
	}

	return params.State
}

func (e *DispatchExecutor) resolveContact(ctx context.Context, guestID string) (*model.Contact, error) {
	if e.cache != nil {
		contact, hit, err := e.cache.Get(ctx, guestID)
		if err != nil && e.logger != nil {
			e.logger.DebugContext(ctx, "contact cache read failed", "guest_id", guestID, "err", err)
		}
		if hit {
			return contact, nil
		}
	}

	contact, err := e.directory.ResolveContact(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if setErr := e.cache.Set(ctx, *contact, e.cacheTTL); setErr != nil && e.logger != nil {
			e.logger.DebugContext(ctx, "contact cache write failed", "guest_id", guestID, "err", setErr)
		}
	}
	return contact, nil
}

// classifySendError maps a sender failure to the retryable flag and a short
// reason. Unclassified errors are treated as retryable; a transient fault
// mislabelled permanent would strand a deliverable recipient.
func classifySendError(err error) (bool, string) {
	var sendErr *core.SendError
	if errors.As(err, &sendErr) {
		return sendErr.Retryable, sendErr.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true, "send interrupted"
	}
	return true, err.Error()
}
