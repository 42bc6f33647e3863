package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data"
	"github.com/festivo/notify-api/internal/domain/model"
	apperrors "github.com/festivo/notify-api/internal/errors"
	"github.com/festivo/notify-api/internal/mocks"
	mockcore "github.com/festivo/notify-api/internal/mocks/core"
)

// memJobRepo is a mutex-guarded in-memory core.JobRepository with the same
// claim, lease, and counter semantics as the SQL implementation. The clock is
// manual so lease expiry can be simulated deterministically.
type memJobRepo struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	jobs    map[string]*model.Job
	entries map[string][]*model.RecipientEntry
}

var _ core.JobRepository = (*memJobRepo)(nil)

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{
		now:     time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		jobs:    map[string]*model.Job{},
		entries: map[string][]*model.RecipientEntry{},
	}
}

func (r *memJobRepo) advanceClock(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = r.now.Add(d)
}

func (r *memJobRepo) Create(_ context.Context, params core.CreateJobParams) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	job := &model.Job{
		ID:              fmt.Sprintf("job-%d", r.seq),
		EventID:         params.Req.EventID,
		CreatedBy:       params.CreatedBy,
		MessageType:     params.Req.MessageType,
		Status:          model.JobStatusPending,
		TotalRecipients: len(params.Guests),
		CreatedAt:       r.now,
		UpdatedAt:       r.now,
	}
	r.jobs[job.ID] = job
	for _, g := range params.Guests {
		r.entries[job.ID] = append(r.entries[job.ID], &model.RecipientEntry{
			JobID:   job.ID,
			GuestID: g.ID,
			State:   model.RecipientStatePending,
		})
	}
	copied := *job
	return &copied, nil
}

func (r *memJobRepo) GetByID(_ context.Context, id string) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *memJobRepo) ClaimNextChunk(_ context.Context, params core.ClaimChunkParams) (*core.ClaimResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[params.JobID]
	if !ok {
		return nil, data.ErrJobNotFound
	}
	if job.Status.Terminal() {
		return &core.ClaimResult{Status: job.Status}, nil
	}
	if job.CancelRequested {
		if r.drainedLocked(params.JobID, params.LeaseSeconds) {
			job.Status = model.JobStatusCancelled
		}
		return &core.ClaimResult{Status: job.Status}, nil
	}

	lease := time.Duration(params.LeaseSeconds) * time.Second
	var claimed []model.RecipientEntry
	for _, entry := range r.entries[params.JobID] {
		if len(claimed) >= params.MaxSize {
			break
		}
		expired := entry.State == model.RecipientStateClaimed &&
			entry.ClaimedAt != nil && !entry.ClaimedAt.Add(lease).After(r.now)
		if entry.State == model.RecipientStatePending || expired {
			at := r.now
			entry.State = model.RecipientStateClaimed
			entry.ClaimedAt = &at
			claimed = append(claimed, *entry)
		}
	}

	if len(claimed) > 0 && job.Status == model.JobStatusPending {
		job.Status = model.JobStatusProcessing
	}
	if len(claimed) == 0 && r.drainedLocked(params.JobID, params.LeaseSeconds) {
		job.Status = model.JobStatusCompleted
	}
	return &core.ClaimResult{Entries: claimed, Status: job.Status}, nil
}

func (r *memJobRepo) FinalizeIfDrained(_ context.Context, params core.FinalizeParams) (model.JobStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[params.JobID]
	if !ok {
		return "", data.ErrJobNotFound
	}
	if job.Status.Terminal() {
		return job.Status, nil
	}
	if r.drainedLocked(params.JobID, params.LeaseSeconds) {
		if job.CancelRequested {
			job.Status = model.JobStatusCancelled
		} else if r.allTerminalLocked(params.JobID) {
			job.Status = model.JobStatusCompleted
		}
	}
	return job.Status, nil
}

// drainedLocked reports whether the job has no claimable or live-claimed work.
func (r *memJobRepo) drainedLocked(jobID string, leaseSeconds int) bool {
	lease := time.Duration(leaseSeconds) * time.Second
	for _, entry := range r.entries[jobID] {
		if entry.State == model.RecipientStatePending {
			if !r.jobs[jobID].CancelRequested {
				return false
			}
			continue
		}
		if entry.State == model.RecipientStateClaimed &&
			entry.ClaimedAt != nil && entry.ClaimedAt.Add(lease).After(r.now) {
			return false
		}
	}
	return true
}

func (r *memJobRepo) allTerminalLocked(jobID string) bool {
	for _, entry := range r.entries[jobID] {
		if !entry.State.Terminal() {
			return false
		}
	}
	return true
}

func (r *memJobRepo) MarkRecipient(_ context.Context, params core.RecipientOutcomeParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries[params.JobID] {
		if entry.GuestID != params.GuestID {
			continue
		}
		if entry.State != model.RecipientStateClaimed {
			return data.ErrClaimLost
		}
		entry.State = params.State
		entry.Retryable = params.Retryable
		if params.ErrMsg != "" {
			msg := params.ErrMsg
			entry.LastError = &msg
		}
		if params.State == model.RecipientStateSent || params.State == model.RecipientStateFailed {
			entry.AttemptCount++
		}
		at := r.now
		entry.ProcessedAt = &at
		return nil
	}
	return data.ErrRecipientNotFound
}

func (r *memJobRepo) AddJobCounts(_ context.Context, params core.AddCountsParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[params.JobID]
	if !ok {
		return data.ErrJobNotFound
	}
	if job.SentCount+job.FailedCount+params.Sent+params.Failed > job.TotalRecipients {
		return data.ErrCounterOverflow
	}
	job.SentCount += params.Sent
	job.FailedCount += params.Failed
	return nil
}

func (r *memJobRepo) RequestCancel(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return false, data.ErrJobNotFound
	}
	if job.Status.Terminal() {
		return false, nil
	}
	job.CancelRequested = true
	return true, nil
}

func (r *memJobRepo) MarkJobFailed(_ context.Context, id, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return data.ErrJobNotFound
	}
	job.Status = model.JobStatusFailed
	job.LastError = &errMsg
	return nil
}

func (r *memJobRepo) RetryRecipient(_ context.Context, jobID, guestID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return false, data.ErrJobNotFound
	}
	for _, entry := range r.entries[jobID] {
		if entry.GuestID != guestID {
			continue
		}
		if entry.State != model.RecipientStateFailed || !entry.Retryable {
			return false, data.ErrRecipientNotRetryable
		}
		if job.Status != model.JobStatusProcessing && job.Status != model.JobStatusCompleted {
			return false, data.ErrRecipientNotRetryable
		}
		entry.State = model.RecipientStatePending
		entry.ClaimedAt = nil
		entry.ProcessedAt = nil
		job.FailedCount--
		job.Status = model.JobStatusProcessing
		return true, nil
	}
	return false, data.ErrRecipientNotFound
}

func (r *memJobRepo) ListActive(_ context.Context, limit int) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var jobs []*model.Job
	for _, job := range r.jobs {
		if job.Status == model.JobStatusPending || job.Status == model.JobStatusProcessing {
			copied := *job
			jobs = append(jobs, &copied)
		}
		if limit > 0 && len(jobs) >= limit {
			break
		}
	}
	return jobs, nil
}

func (r *memJobRepo) ListByEvent(_ context.Context, opts core.JobListOptions) ([]*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var jobs []*model.Job
	for _, job := range r.jobs {
		if job.EventID == opts.EventID {
			copied := *job
			jobs = append(jobs, &copied)
		}
	}
	return jobs, nil
}

func (r *memJobRepo) ListRecipients(_ context.Context, opts model.RecipientListOptions) ([]*model.RecipientEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.RecipientEntry
	for _, entry := range r.entries[opts.JobID] {
		copied := *entry
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memJobRepo) Stats(_ context.Context, jobID string) (*model.JobStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.JobStats{}
	for _, entry := range r.entries[jobID] {
		switch entry.State {
		case model.RecipientStatePending:
			stats.Pending++
		case model.RecipientStateClaimed:
			stats.Claimed++
		case model.RecipientStateSent:
			stats.Sent++
		case model.RecipientStateFailed:
			stats.Failed++
		case model.RecipientStateSkipped:
			stats.Skipped++
		}
	}
	return stats, nil
}

const (
	testEventID = "event-1"
	testOwnerID = "user-owner"
)

type jobHarness struct {
	repo      *memJobRepo
	directory *mockcore.FakeGuestDirectory
	sender    *mockcore.FakeSender
	audit     *mockcore.MemoryAuditRepository
	svc       *JobService
}

// newJobHarness wires a JobService over the in-memory repo with the given
// number of accepted guests, all with resolvable contacts.
func newJobHarness(t *testing.T, guestCount, chunkSize int) *jobHarness {
	t.Helper()

	repo := newMemJobRepo()
	directory := mockcore.NewFakeGuestDirectory()
	directory.Events[testEventID] = &model.Event{
		ID:      testEventID,
		OwnerID: testOwnerID,
		Name:    "Spring Gala",
	}
	for i := 0; i < guestCount; i++ {
		id := fmt.Sprintf("guest-%d", i)
		directory.Guests[testEventID] = append(directory.Guests[testEventID], model.Guest{
			ID:           id,
			EventID:      testEventID,
			Name:         "Guest " + id,
			Phone:        fmt.Sprintf("+1555000%04d", i),
			InviteStatus: "accepted",
		})
		directory.Contacts[id] = &model.Contact{
			GuestID: id,
			Name:    "Guest " + id,
			Phone:   fmt.Sprintf("+1555000%04d", i),
		}
	}

	sender := mockcore.NewFakeSender()
	audit := &mockcore.MemoryAuditRepository{}

	executor, err := NewDispatchExecutor(DispatchExecutorOptions{
		Repo:        repo,
		Directory:   directory,
		Sender:      sender,
		Audit:       audit,
		Parallelism: 2,
	})
	require.NoError(t, err)

	svc, err := NewJobService(JobServiceOptions{
		Repo:             repo,
		Directory:        directory,
		Executor:         executor,
		DefaultChunkSize: chunkSize,
		DefaultLease:     2 * time.Minute,
	})
	require.NoError(t, err)

	return &jobHarness{repo: repo, directory: directory, sender: sender, audit: audit, svc: svc}
}

func (h *jobHarness) createJob(t *testing.T, messageType model.MessageType) *model.Job {
	t.Helper()
	job, err := h.svc.Create(context.Background(), testOwnerID, &model.CreateJobRequest{
		EventID:     testEventID,
		MessageType: messageType,
	})
	require.NoError(t, err)
	return job
}

func TestJobService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("nil request", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		_, err := h.svc.Create(ctx, testOwnerID, nil)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("invalid request", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		_, err := h.svc.Create(ctx, testOwnerID, &model.CreateJobRequest{
			EventID:     testEventID,
			MessageType: model.MessageType("broadcast"),
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("event not found", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		_, err := h.svc.Create(ctx, testOwnerID, &model.CreateJobRequest{
			EventID:     "missing-event",
			MessageType: model.MessageTypeReminder,
		})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		_, err := h.svc.Create(ctx, "user-stranger", &model.CreateJobRequest{
			EventID:     testEventID,
			MessageType: model.MessageTypeReminder,
		})
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("no eligible recipients", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		// All harness guests are accepted, so an invite targets nobody.
		_, err := h.svc.Create(ctx, testOwnerID, &model.CreateJobRequest{
			EventID:     testEventID,
			MessageType: model.MessageTypeInvite,
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("snapshot covers all eligible guests", func(t *testing.T) {
		h := newJobHarness(t, 5, 10)
		job := h.createJob(t, model.MessageTypeReminder)

		assert.Equal(t, model.JobStatusPending, job.Status)
		assert.Equal(t, 5, job.TotalRecipients)
		assert.Equal(t, 0, job.SentCount)

		entries, err := h.svc.ListRecipients(ctx, testOwnerID, model.RecipientListOptions{JobID: job.ID})
		require.NoError(t, err)
		require.Len(t, entries, 5)
		for _, entry := range entries {
			assert.Equal(t, model.RecipientStatePending, entry.State)
		}
	})

	t.Run("explicit guest subset filters the snapshot", func(t *testing.T) {
		h := newJobHarness(t, 5, 10)
		job, err := h.svc.Create(ctx, testOwnerID, &model.CreateJobRequest{
			EventID:     testEventID,
			MessageType: model.MessageTypeReminder,
			GuestIDs:    []string{"guest-1", "guest-3", "guest-unknown"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, job.TotalRecipients)
	})

	t.Run("snapshot is immutable after creation", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		job := h.createJob(t, model.MessageTypeReminder)

		// A guest added after creation never joins the existing snapshot.
		h.directory.Guests[testEventID] = append(h.directory.Guests[testEventID], model.Guest{
			ID: "guest-late", EventID: testEventID, InviteStatus: "accepted",
		})

		got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.TotalRecipients)
	})
}

func TestJobService_AdvanceToCompletion(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 7, 3)
	job := h.createJob(t, model.MessageTypeReminder)

	first, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Processed)
	assert.Equal(t, 3, first.Sent)
	assert.False(t, first.Complete)

	second, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Processed)
	assert.False(t, second.Complete)

	third, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Processed)
	assert.True(t, third.Complete, "the advance that drains the job reports completion")

	got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, 7, got.SentCount)
	assert.Equal(t, 0, got.FailedCount)

	assert.Len(t, h.sender.Sent(), 7)
	assert.Len(t, h.audit.Records(), 7)

	t.Run("advance after completion is a no-op", func(t *testing.T) {
		again, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Processed)
		assert.True(t, again.Complete)
		assert.Len(t, h.sender.Sent(), 7, "no recipient is ever sent twice")
	})
}

func TestJobService_AdvanceMixedOutcomes(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 5, 10)

	// guest-1 has no contact channel, guest-2 is throttled, guest-3 is a
	// permanent provider rejection.
	delete(h.directory.Contacts, "guest-1")
	h.sender.FailWith["guest-2"] = &core.SendError{Retryable: true, Reason: "rate limited"}
	h.sender.FailWith["guest-3"] = &core.SendError{Retryable: false, Reason: "invalid destination"}

	job := h.createJob(t, model.MessageTypeUpdate)

	result, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.True(t, result.Complete)

	got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, 2, got.SentCount)
	assert.Equal(t, 2, got.FailedCount, "skipped entries never count as sent or failed")

	stats, err := h.svc.Stats(ctx, testOwnerID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, &model.JobStats{Sent: 2, Failed: 2, Skipped: 1}, stats)

	entries, err := h.svc.ListRecipients(ctx, testOwnerID, model.RecipientListOptions{JobID: job.ID})
	require.NoError(t, err)
	byGuest := map[string]*model.RecipientEntry{}
	for _, entry := range entries {
		byGuest[entry.GuestID] = entry
	}
	assert.Equal(t, model.RecipientStateSkipped, byGuest["guest-1"].State)
	assert.Equal(t, model.RecipientStateFailed, byGuest["guest-2"].State)
	assert.True(t, byGuest["guest-2"].Retryable)
	assert.Equal(t, model.RecipientStateFailed, byGuest["guest-3"].State)
	assert.False(t, byGuest["guest-3"].Retryable)
}

func TestJobService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel stops dispatch at the next claim", func(t *testing.T) {
		h := newJobHarness(t, 6, 2)
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)

		cancelled, err := h.svc.RequestCancel(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCancelled, cancelled.Status)
		assert.True(t, cancelled.CancelRequested)

		// Entries never claimed stay pending; nothing more is sent.
		stats, err := h.svc.Stats(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Pending)
		assert.Equal(t, 2, stats.Sent)

		result, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Processed)
		assert.True(t, result.Complete)
		assert.Len(t, h.sender.Sent(), 2)
	})

	t.Run("cancel of a terminal job conflicts", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)

		_, err = h.svc.RequestCancel(ctx, testOwnerID, job.ID)
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("cancel of unknown job is not found", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		_, err := h.svc.RequestCancel(ctx, testOwnerID, "missing-job")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobService_ConcurrentAdvance(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 40, 5)
	job := h.createJob(t, model.MessageTypeReminder)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				result, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
				if err != nil || result.Complete {
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, got.Status)
	assert.Equal(t, 40, got.SentCount)
	assert.Equal(t, 0, got.FailedCount)
	assert.Len(t, h.sender.Sent(), 40, "concurrent advances never dispatch an entry twice")
}

func TestJobService_LeaseReclaim(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 3, 10)
	job := h.createJob(t, model.MessageTypeReminder)

	// Simulate a crashed invocation: claim directly at the repo so the
	// entries stay claimed with no outcome ever written.
	claim, err := h.repo.ClaimNextChunk(ctx, core.ClaimChunkParams{
		JobID: job.ID, MaxSize: 10, LeaseSeconds: 120,
	})
	require.NoError(t, err)
	require.Len(t, claim.Entries, 3)

	// Before the lease expires nothing is claimable.
	result, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
	assert.False(t, result.Complete, "live claims keep the job open")

	// After expiry the same entries are claimed and dispatched again.
	h.repo.advanceClock(3 * time.Minute)
	result, err = h.svc.Advance(ctx, testOwnerID, job.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.True(t, result.Complete)
	assert.Len(t, h.sender.Sent(), 3)
}

func TestJobService_Advance_Validation(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 2, 10)
	job := h.createJob(t, model.MessageTypeReminder)

	t.Run("negative chunk size", func(t *testing.T) {
		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, -1)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "chunk_size", apperrors.GetField(err))
	})

	t.Run("oversized chunk", func(t *testing.T) {
		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, maxChunkSize+1)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := h.svc.Advance(ctx, testOwnerID, "missing-job", 0)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := h.svc.Advance(ctx, "user-stranger", job.ID, 0)
		assert.True(t, apperrors.IsUnauthorized(err))
	})
}

func TestJobService_CounterOverflowFailsJob(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockJobRepository(ctrl)
	mockDirectory := mocks.NewMockGuestDirectory(ctrl)

	mockRepo.EXPECT().ClaimNextChunk(gomock.Any(), gomock.Any()).
		Return(&core.ClaimResult{
			Entries: []model.RecipientEntry{{JobID: "job-1", GuestID: "guest-0", State: model.RecipientStateClaimed}},
			Status:  model.JobStatusProcessing,
		}, nil)
	mockRepo.EXPECT().GetByID(gomock.Any(), "job-1").
		Return(&model.Job{ID: "job-1", EventID: testEventID, CreatedBy: testOwnerID,
			MessageType: model.MessageTypeReminder,
			Status:      model.JobStatusProcessing, TotalRecipients: 1}, nil)
	mockRepo.EXPECT().MarkRecipient(gomock.Any(), gomock.Any()).Return(nil)
	mockRepo.EXPECT().AddJobCounts(gomock.Any(), gomock.Any()).Return(data.ErrCounterOverflow)
	mockRepo.EXPECT().MarkJobFailed(gomock.Any(), "job-1", gomock.Any()).Return(nil)

	mockDirectory.EXPECT().EventByID(gomock.Any(), testEventID).
		Return(&model.Event{ID: testEventID, OwnerID: testOwnerID, Name: "Spring Gala"}, nil)
	mockDirectory.EXPECT().ResolveContact(gomock.Any(), "guest-0").
		Return(&model.Contact{GuestID: "guest-0", Phone: "+15550000000"}, nil)

	executor, err := NewDispatchExecutor(DispatchExecutorOptions{
		Repo:      mockRepo,
		Directory: mockDirectory,
		Sender:    mockcore.NewFakeSender(),
		Audit:     &mockcore.MemoryAuditRepository{},
	})
	require.NoError(t, err)

	svc, err := NewJobService(JobServiceOptions{
		Repo:         mockRepo,
		Directory:    mockDirectory,
		Executor:     executor,
		DefaultLease: time.Minute,
	})
	require.NoError(t, err)

	_, err = svc.AdvanceJob(ctx, "job-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsInternal(err), "counter overflow must surface as an internal error")
}

func TestJobService_RetryRecipient(t *testing.T) {
	ctx := context.Background()

	t.Run("retryable failure is rescheduled", func(t *testing.T) {
		h := newJobHarness(t, 3, 10)
		h.sender.FailWith["guest-0"] = &core.SendError{Retryable: true, Reason: "rate limited"}
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)

		got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		require.Equal(t, model.JobStatusCompleted, got.Status)
		require.Equal(t, 1, got.FailedCount)

		// The provider recovers before the retry.
		delete(h.sender.FailWith, "guest-0")

		reopened, err := h.svc.RetryRecipient(ctx, testOwnerID, job.ID, "guest-0")
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusProcessing, reopened.Status)
		assert.Equal(t, 0, reopened.FailedCount)

		result, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		assert.True(t, result.Complete)

		final, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, final.SentCount)
		assert.Equal(t, 0, final.FailedCount)
	})

	t.Run("permanent failure is not retryable", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		h.sender.FailWith["guest-0"] = &core.SendError{Retryable: false, Reason: "invalid destination"}
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)

		_, err = h.svc.RetryRecipient(ctx, testOwnerID, job.ID, "guest-0")
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("sent entry is not retryable", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 0)
		require.NoError(t, err)

		_, err = h.svc.RetryRecipient(ctx, testOwnerID, job.ID, "guest-0")
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("unknown recipient is not found", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.RetryRecipient(ctx, testOwnerID, job.ID, "guest-unknown")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("cancelled job rejects retry", func(t *testing.T) {
		h := newJobHarness(t, 2, 10)
		h.sender.FailWith["guest-0"] = &core.SendError{Retryable: true, Reason: "rate limited"}
		job := h.createJob(t, model.MessageTypeReminder)

		_, err := h.svc.Advance(ctx, testOwnerID, job.ID, 1)
		require.NoError(t, err)

		cancelled, err := h.svc.RequestCancel(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		require.Equal(t, model.JobStatusCancelled, cancelled.Status)

		_, err = h.svc.RetryRecipient(ctx, testOwnerID, job.ID, "guest-0")
		assert.True(t, apperrors.IsConflict(err))

		// The terminal job keeps its counters; the entry stays failed.
		got, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCancelled, got.Status)
		assert.Equal(t, 1, got.FailedCount)
	})
}

func TestJobService_Authorization(t *testing.T) {
	ctx := context.Background()
	h := newJobHarness(t, 2, 10)
	job := h.createJob(t, model.MessageTypeReminder)

	t.Run("creator may read", func(t *testing.T) {
		_, err := h.svc.GetByID(ctx, testOwnerID, job.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger may not read", func(t *testing.T) {
		_, err := h.svc.GetByID(ctx, "user-stranger", job.ID)
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("stranger may not list event jobs", func(t *testing.T) {
		_, err := h.svc.ListByEvent(ctx, "user-stranger", core.JobListOptions{EventID: testEventID})
		assert.True(t, apperrors.IsUnauthorized(err))
	})

	t.Run("owner lists event jobs", func(t *testing.T) {
		jobs, err := h.svc.ListByEvent(ctx, testOwnerID, core.JobListOptions{EventID: testEventID})
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})
}
