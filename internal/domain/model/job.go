// Package model defines the core data types for the notify-api job system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MessageType represents the kind of notification a job sends.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type MessageType string

// JobStatus represents the aggregate status of a notification job.
type JobStatus string

const (
	// MessageTypeInvite targets guests who have not yet responded.
	MessageTypeInvite MessageType = "invite"
	// MessageTypeReminder targets guests who accepted.
	MessageTypeReminder MessageType = "reminder"
	// MessageTypeUpdate targets guests who accepted.
	MessageTypeUpdate MessageType = "update"
	// MessageTypeCancellation targets guests who accepted.
	MessageTypeCancellation MessageType = "cancellation"

	// JobStatusPending indicates a job has not had its first chunk claimed yet.
	JobStatusPending JobStatus = "pending"
	// JobStatusProcessing indicates at least one chunk has been claimed.
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates every recipient reached a terminal state.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCancelled indicates cancellation was observed before the job drained.
	JobStatusCancelled JobStatus = "cancelled"
	// JobStatusFailed indicates an unrecoverable processor error.
	JobStatusFailed JobStatus = "failed"
)

// UnmarshalText implements encoding.TextUnmarshaler for MessageType to allow env parsing.
func (t *MessageType) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	mt := MessageType(v)
	if mt.Valid() {
		*t = mt
		return nil
	}
	return fmt.Errorf("invalid MessageType: %q", v)
}

// Valid returns true if the MessageType is valid.
func (t MessageType) Valid() bool {
	return t == MessageTypeInvite || t == MessageTypeReminder ||
		t == MessageTypeUpdate || t == MessageTypeCancellation
}

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusPending || s == JobStatusProcessing || s == JobStatusCompleted ||
		s == JobStatusCancelled || s == JobStatusFailed
}

// Terminal returns true if no further transitions are allowed from the status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled || s == JobStatusFailed
}

// Job represents one bulk-send request scoped to a fixed recipient snapshot.
type Job struct {
	ID              string      `json:"id"                   db:"id"`
	EventID         string      `json:"event_id"             db:"event_id"`
	CreatedBy       string      `json:"created_by"           db:"created_by"`
	MessageType     MessageType `json:"message_type"         db:"message_type"`
	Status          JobStatus   `json:"status"               db:"status"`
	TotalRecipients int         `json:"total_recipients"     db:"total_recipients"`
	SentCount       int         `json:"sent_count"           db:"sent_count"`
	FailedCount     int         `json:"failed_count"         db:"failed_count"`
	CancelRequested bool        `json:"cancel_requested"     db:"cancel_requested"`
	LastError       *string     `json:"last_error,omitempty" db:"last_error"`
	CreatedAt       time.Time   `json:"created_at"           db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"           db:"updated_at"`
}

// CreateJobRequest represents a request to create a new notification job.
// GuestIDs optionally restricts the snapshot to an explicit subset; it is
// intersected with the event's eligible guests.
type CreateJobRequest struct {
	EventID     string      `json:"event_id"`
	MessageType MessageType `json:"message_type"`
	GuestIDs    []string    `json:"guest_ids,omitempty"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.New("event id is required")
	}
	if !r.MessageType.Valid() {
		return errors.New("invalid message type")
	}
	for _, id := range r.GuestIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("guest ids must not be empty")
		}
	}
	return nil
}

// AdvanceResult reports the outcome of one chunk cycle on a job.
type AdvanceResult struct {
	Processed int  `json:"processed"`
	Sent      int  `json:"sent"`
	Failed    int  `json:"failed"`
	Complete  bool `json:"is_complete"`
}

// JobSweepResult is the outcome of one sweep pass for a single job.
type JobSweepResult struct {
	JobID     string `json:"job_id"`
	Processed int    `json:"processed"`
	Sent      int    `json:"sent"`
	Failed    int    `json:"failed"`
	Complete  bool   `json:"is_complete"`
	Error     string `json:"error,omitempty"`
}

// SweepReport summarises one sweep pass across all jobs it touched.
type SweepReport struct {
	JobsAdvanced int              `json:"jobs_advanced"`
	Jobs         []JobSweepResult `json:"jobs"`
}

// JobStats represents recipient counts per state for one job.
type JobStats struct {
	Pending int `json:"pending"`
	Claimed int `json:"claimed"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}
