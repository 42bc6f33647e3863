package data

import (
	"database/sql"
	"errors"
	"log/slog"
)

var (
	// ErrJobNotFound is returned when a notification job is not found.
	ErrJobNotFound = errors.New("job not found")
	// ErrEventNotFound is returned when an event is not found.
	ErrEventNotFound = errors.New("event not found")
	// ErrRecipientNotFound is returned when a recipient entry is not found.
	ErrRecipientNotFound = errors.New("recipient entry not found")
	// ErrRecipientNotRetryable is returned when a retry targets an entry that
	// is not in a retryable failed state.
	ErrRecipientNotRetryable = errors.New("recipient entry is not retryable")
	// ErrCounterOverflow is returned when a counter update would push
	// sent_count + failed_count past total_recipients. This indicates a
	// processor bug, never a recipient-level failure.
	ErrCounterOverflow = errors.New("job counters would exceed total recipients")
	// ErrClaimLost is returned when a terminal recipient update finds the
	// entry no longer claimed, meaning its lease expired and another
	// invocation reclaimed it.
	ErrClaimLost = errors.New("recipient claim no longer held")
)

// RepoConfig holds configuration options for the job repository.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRepo provides database operations for notification job management.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewJobRepo creates a new JobRepo instance with the given database connection and configuration.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}

	return &JobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const jobColumns = `
  id,
  event_id,
  created_by,
  message_type,
  status,
  total_recipients,
  sent_count,
  failed_count,
  cancel_requested,
  last_error,
  created_at,
  updated_at
`

const recipientColumns = `
  job_id,
  guest_id,
  state,
  attempt_count,
  retryable,
  last_error,
  claimed_at,
  processed_at
`
