package model

import "time"

// RecipientState represents the per-recipient delivery state within a job.
type RecipientState string

const (
	// RecipientStatePending indicates the entry has not been claimed yet.
	RecipientStatePending RecipientState = "pending"
	// RecipientStateClaimed indicates the entry is owned by an in-flight invocation.
	RecipientStateClaimed RecipientState = "claimed"
	// RecipientStateSent indicates the provider accepted the message.
	RecipientStateSent RecipientState = "sent"
	// RecipientStateFailed indicates the send attempt failed.
	RecipientStateFailed RecipientState = "failed"
	// RecipientStateSkipped indicates the guest had no usable contact channel.
	RecipientStateSkipped RecipientState = "skipped"
)

// Valid returns true if the RecipientState is valid.
func (s RecipientState) Valid() bool {
	return s == RecipientStatePending || s == RecipientStateClaimed ||
		s == RecipientStateSent || s == RecipientStateFailed || s == RecipientStateSkipped
}

// Terminal returns true if the entry can no longer transition.
func (s RecipientState) Terminal() bool {
	return s == RecipientStateSent || s == RecipientStateFailed || s == RecipientStateSkipped
}

// RecipientEntry is one row of a job's recipient snapshot. Entries are created
// together with the job and never deleted while the job exists.
type RecipientEntry struct {
	JobID        string         `json:"job_id"                 db:"job_id"`
	GuestID      string         `json:"guest_id"               db:"guest_id"`
	State        RecipientState `json:"state"                  db:"state"`
	AttemptCount int            `json:"attempt_count"          db:"attempt_count"`
	Retryable    bool           `json:"retryable"              db:"retryable"`
	LastError    *string        `json:"last_error,omitempty"   db:"last_error"`
	ClaimedAt    *time.Time     `json:"claimed_at,omitempty"   db:"claimed_at"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty" db:"processed_at"`
}

// RecipientListOptions controls pagination for recipient listings.
type RecipientListOptions struct {
	JobID  string
	Limit  int
	Offset int
}

// Guest is the directory view of one event guest, as resolved at snapshot time.
type Guest struct {
	ID           string `json:"id"            db:"id"`
	EventID      string `json:"event_id"      db:"event_id"`
	Name         string `json:"name"          db:"name"`
	Phone        string `json:"phone"         db:"phone"`
	InviteStatus string `json:"invite_status" db:"invite_status"`
	OptedOut     bool   `json:"opted_out"     db:"opted_out"`
}

// Contact is a resolved outbound channel for one guest.
type Contact struct {
	GuestID string `json:"guest_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// Event is the directory view of one event.
type Event struct {
	ID       string    `json:"id"        db:"id"`
	OwnerID  string    `json:"owner_id"  db:"owner_id"`
	Name     string    `json:"name"      db:"name"`
	StartsAt time.Time `json:"starts_at" db:"starts_at"`
}
