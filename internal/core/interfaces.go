// Package core defines the ports between the service layer and its
// collaborators (persistent store, guest directory, outbound channel).
// Service implementations depend on these interfaces, not concrete types.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/festivo/notify-api/internal/domain/model"
)

// ErrNoContact is returned by a GuestDirectory when a guest has no usable
// outbound channel. The dispatch executor treats it as a skip, not a failure.
var ErrNoContact = errors.New("guest has no contact channel")

// CreateJobParams groups parameters for JobRepository.Create.
type CreateJobParams struct {
	Req       *model.CreateJobRequest
	CreatedBy string
	// Guests is the resolved recipient snapshot; one RecipientEntry row is
	// created per guest, atomically with the job.
	Guests []model.Guest
}

// ClaimChunkParams groups parameters for JobRepository.ClaimNextChunk.
type ClaimChunkParams struct {
	JobID        string
	MaxSize      int
	LeaseSeconds int
}

// ClaimResult reports the outcome of one claim attempt.
type ClaimResult struct {
	// Entries are the newly claimed recipient entries, empty when the job is
	// terminal, cancelled, or has no claimable work.
	Entries []model.RecipientEntry
	// Status is the job status after the claim attempt, including any
	// terminal transition performed by the claim itself.
	Status model.JobStatus
}

// FinalizeParams groups parameters for JobRepository.FinalizeIfDrained.
type FinalizeParams struct {
	JobID        string
	LeaseSeconds int
}

// RecipientOutcomeParams groups parameters for JobRepository.MarkRecipient.
type RecipientOutcomeParams struct {
	JobID     string
	GuestID   string
	State     model.RecipientState
	Retryable bool
	ErrMsg    string
}

// AddCountsParams groups parameters for JobRepository.AddJobCounts.
type AddCountsParams struct {
	JobID  string
	Sent   int
	Failed int
}

// JobListOptions controls pagination for per-event job listings.
type JobListOptions struct {
	EventID string
	Limit   int
	Offset  int
}

// JobRepository defines the persistent-store operations for notification jobs.
// All shared mutation goes through conditional single-statement updates.
// MarkRecipient is conditional on the entry still being claimed; a write that
// finds the claim gone lost its lease to another invocation.
type JobRepository interface {
	Create(ctx context.Context, params CreateJobParams) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	ClaimNextChunk(ctx context.Context, params ClaimChunkParams) (*ClaimResult, error)
	FinalizeIfDrained(ctx context.Context, params FinalizeParams) (model.JobStatus, error)
	MarkRecipient(ctx context.Context, params RecipientOutcomeParams) error
	AddJobCounts(ctx context.Context, params AddCountsParams) error
	RequestCancel(ctx context.Context, id string) (bool, error)
	MarkJobFailed(ctx context.Context, id, errMsg string) error
	RetryRecipient(ctx context.Context, jobID, guestID string) (bool, error)
	ListActive(ctx context.Context, limit int) ([]*model.Job, error)
	ListByEvent(ctx context.Context, opts JobListOptions) ([]*model.Job, error)
	ListRecipients(ctx context.Context, opts model.RecipientListOptions) ([]*model.RecipientEntry, error)
	Stats(ctx context.Context, jobID string) (*model.JobStats, error)
}

// GuestDirectory resolves events, eligible guests, and contact channels.
// Eligibility is decided before job creation; this subsystem only reads.
type GuestDirectory interface {
	EventByID(ctx context.Context, id string) (*model.Event, error)
	EligibleGuests(ctx context.Context, eventID string, messageType model.MessageType) ([]model.Guest, error)
	ResolveContact(ctx context.Context, guestID string) (*model.Contact, error)
}

// SendRequest carries everything the outbound channel needs for one message.
type SendRequest struct {
	JobID       string
	MessageType model.MessageType
	EventName   string
	Contact     model.Contact
}

// MessageSender is the outbound notification channel (WhatsApp/SMS provider).
type MessageSender interface {
	Send(ctx context.Context, req SendRequest) error
}

// SendError classifies a provider failure. Retryable failures (throttling,
// 5xx) leave the entry eligible for a manual retry; permanent rejections
// (invalid number, blocked recipient) do not.
type SendError struct {
	Retryable bool
	Reason    string
	Cause     error
}

// Error implements the error interface.
func (e *SendError) Error() string {
	if e.Cause != nil {
		return e.Reason + ": " + e.Cause.Error()
	}
	return e.Reason
}

// Unwrap returns the underlying cause.
func (e *SendError) Unwrap() error {
	return e.Cause
}

// AuditRecord is one append-only row describing a dispatch attempt.
type AuditRecord struct {
	ID      string
	JobID   string
	GuestID string
	Channel string
	Outcome string
	Detail  string
	At      time.Time
}

// AuditRepository stores dispatch attempt records. Records are append-only
// and never mutated.
type AuditRepository interface {
	Append(ctx context.Context, rec AuditRecord) error
}

// ContactCache is an optional read-through cache in front of
// GuestDirectory.ResolveContact.
type ContactCache interface {
	Get(ctx context.Context, guestID string) (*model.Contact, bool, error)
	Set(ctx context.Context, contact model.Contact, ttl time.Duration) error
}
