// Package core contains simple hand-written test doubles for the service
// ports. These are lightweight and suitable for unit tests without codegen.
package core

import (
	"context"
	"sync"
	"time"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/data"
	"github.com/festivo/notify-api/internal/domain/model"
)

// Ensure compile-time conformance to the ports.
var (
	_ core.JobRepository   = (*FakeJobRepository)(nil)
	_ core.GuestDirectory  = (*FakeGuestDirectory)(nil)
	_ core.MessageSender   = (*FakeSender)(nil)
	_ core.AuditRepository = (*MemoryAuditRepository)(nil)
	_ core.ContactCache    = (*MemoryContactCache)(nil)
)

// FakeJobRepository is a func-field double for core.JobRepository. Methods
// with a nil func return zero values.
type FakeJobRepository struct {
	CreateFunc            func(ctx context.Context, params core.CreateJobParams) (*model.Job, error)
	GetByIDFunc           func(ctx context.Context, id string) (*model.Job, error)
	ClaimNextChunkFunc    func(ctx context.Context, params core.ClaimChunkParams) (*core.ClaimResult, error)
	FinalizeIfDrainedFunc func(ctx context.Context, params core.FinalizeParams) (model.JobStatus, error)
	MarkRecipientFunc     func(ctx context.Context, params core.RecipientOutcomeParams) error
	AddJobCountsFunc      func(ctx context.Context, params core.AddCountsParams) error
	RequestCancelFunc     func(ctx context.Context, id string) (bool, error)
	MarkJobFailedFunc     func(ctx context.Context, id, errMsg string) error
	RetryRecipientFunc    func(ctx context.Context, jobID, guestID string) (bool, error)
	ListActiveFunc        func(ctx context.Context, limit int) ([]*model.Job, error)
	ListByEventFunc       func(ctx context.Context, opts core.JobListOptions) ([]*model.Job, error)
	ListRecipientsFunc    func(ctx context.Context, opts model.RecipientListOptions) ([]*model.RecipientEntry, error)
	StatsFunc             func(ctx context.Context, jobID string) (*model.JobStats, error)
}

func (f *FakeJobRepository) Create(ctx context.Context, params core.CreateJobParams) (*model.Job, error) {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (f *FakeJobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakeJobRepository) ClaimNextChunk(ctx context.Context, params core.ClaimChunkParams) (*core.ClaimResult, error) {
	if f.ClaimNextChunkFunc != nil {
		return f.ClaimNextChunkFunc(ctx, params)
	}
	return &core.ClaimResult{}, nil
}

func (f *FakeJobRepository) FinalizeIfDrained(ctx context.Context, params core.FinalizeParams) (model.JobStatus, error) {
	if f.FinalizeIfDrainedFunc != nil {
		return f.FinalizeIfDrainedFunc(ctx, params)
	}
	return model.JobStatusProcessing, nil
}

func (f *FakeJobRepository) MarkRecipient(ctx context.Context, params core.RecipientOutcomeParams) error {
	if f.MarkRecipientFunc != nil {
		return f.MarkRecipientFunc(ctx, params)
	}
	return nil
}

func (f *FakeJobRepository) AddJobCounts(ctx context.Context, params core.AddCountsParams) error {
	if f.AddJobCountsFunc != nil {
		return f.AddJobCountsFunc(ctx, params)
	}
	return nil
}

func (f *FakeJobRepository) RequestCancel(ctx context.Context, id string) (bool, error) {
	if f.RequestCancelFunc != nil {
		return f.RequestCancelFunc(ctx, id)
	}
	return false, nil
}

func (f *FakeJobRepository) MarkJobFailed(ctx context.Context, id, errMsg string) error {
	if f.MarkJobFailedFunc != nil {
		return f.MarkJobFailedFunc(ctx, id, errMsg)
	}
	return nil
}

func (f *FakeJobRepository) RetryRecipient(ctx context.Context, jobID, guestID string) (bool, error) {
	if f.RetryRecipientFunc != nil {
		return f.RetryRecipientFunc(ctx, jobID, guestID)
	}
	return false, nil
}

func (f *FakeJobRepository) ListActive(ctx context.Context, limit int) ([]*model.Job, error) {
	if f.ListActiveFunc != nil {
		return f.ListActiveFunc(ctx, limit)
	}
	return nil, nil
}

func (f *FakeJobRepository) ListByEvent(ctx context.Context, opts core.JobListOptions) ([]*model.Job, error) {
	if f.ListByEventFunc != nil {
		return f.ListByEventFunc(ctx, opts)
	}
	return nil, nil
}

func (f *FakeJobRepository) ListRecipients(ctx context.Context, opts model.RecipientListOptions) ([]*model.RecipientEntry, error) {
	if f.ListRecipientsFunc != nil {
		return f.ListRecipientsFunc(ctx, opts)
	}
	return nil, nil
}

func (f *FakeJobRepository) Stats(ctx context.Context, jobID string) (*model.JobStats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, jobID)
	}
	return nil, nil
}

// FakeGuestDirectory is a map-backed double for core.GuestDirectory.
type FakeGuestDirectory struct {
	Events   map[string]*model.Event
	Guests   map[string][]model.Guest // keyed by event ID
	Contacts map[string]*model.Contact

	// ContactErr, when set, is returned by ResolveContact for every guest.
	ContactErr error
}

// NewFakeGuestDirectory returns an empty directory.
func NewFakeGuestDirectory() *FakeGuestDirectory {
	return &FakeGuestDirectory{
		Events:   map[string]*model.Event{},
		Guests:   map[string][]model.Guest{},
		Contacts: map[string]*model.Contact{},
	}
}

func (d *FakeGuestDirectory) EventByID(_ context.Context, id string) (*model.Event, error) {
	if event, ok := d.Events[id]; ok {
		return event, nil
	}
	return nil, data.ErrEventNotFound
}

func (d *FakeGuestDirectory) EligibleGuests(_ context.Context, eventID string, messageType model.MessageType) ([]model.Guest, error) {
	wantStatus := "accepted"
	if messageType == model.MessageTypeInvite {
		wantStatus = "pending"
	}
	var eligible []model.Guest
	for _, g := range d.Guests[eventID] {
		if g.InviteStatus == wantStatus && !g.OptedOut {
			eligible = append(eligible, g)
		}
	}
	return eligible, nil
}

func (d *FakeGuestDirectory) ResolveContact(_ context.Context, guestID string) (*model.Contact, error) {
	if d.ContactErr != nil {
		return nil, d.ContactErr
	}
	if contact, ok := d.Contacts[guestID]; ok {
		return contact, nil
	}
	return nil, core.ErrNoContact
}

// FakeSender records sends and fails the guest IDs listed in FailWith.
type FakeSender struct {
	mu       sync.Mutex
	sent     []core.SendRequest
	FailWith map[string]*core.SendError // keyed by guest ID
}

// NewFakeSender returns an empty sender.
func NewFakeSender() *FakeSender {
	return &FakeSender{FailWith: map[string]*core.SendError{}}
}

func (s *FakeSender) Send(_ context.Context, req core.SendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sendErr, ok := s.FailWith[req.Contact.GuestID]; ok {
		return sendErr
	}
	s.sent = append(s.sent, req)
	return nil
}

// Sent returns a copy of the successfully sent requests.
func (s *FakeSender) Sent() []core.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}

// MemoryAuditRepository collects audit records in memory.
type MemoryAuditRepository struct {
	mu      sync.Mutex
	records []core.AuditRecord
}

func (r *MemoryAuditRepository) Append(_ context.Context, rec core.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of the appended records.
func (r *MemoryAuditRepository) Records() []core.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.AuditRecord, len(r.records))
	copy(out, r.records)
	return out
}

// MemoryContactCache is a TTL-less in-memory core.ContactCache.
type MemoryContactCache struct {
	mu       sync.Mutex
	contacts map[string]model.Contact
}

// NewMemoryContactCache returns an empty cache.
func NewMemoryContactCache() *MemoryContactCache {
	return &MemoryContactCache{contacts: map[string]model.Contact{}}
}

func (c *MemoryContactCache) Get(_ context.Context, guestID string) (*model.Contact, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	contact, ok := c.contacts[guestID]
	if !ok {
		return nil, false, nil
	}
	return &contact, true, nil
}

func (c *MemoryContactCache) Set(_ context.Context, contact model.Contact, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contacts[contact.GuestID] = contact
	return nil
}
