package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/festivo/notify-api/internal/core"
	"github.com/festivo/notify-api/internal/domain/model"
)

// GuestDirectory reads events and guests from the platform tables. This
// subsystem never writes to them.
type GuestDirectory struct {
	DB     *sql.DB
	logger *slog.Logger
}

// NewGuestDirectory creates a new GuestDirectory instance.
func NewGuestDirectory(db *sql.DB, logger *slog.Logger) *GuestDirectory {
	return &GuestDirectory{DB: db, logger: logger}
}

// EventByID fetches one event.
func (d *GuestDirectory) EventByID(ctx context.Context, id string) (*model.Event, error) {
	event := &model.Event{}
	err := d.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, name, starts_at FROM events WHERE id = $1`, id).
		Scan(&event.ID, &event.OwnerID, &event.Name, &event.StartsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// EligibleGuests returns the guests of an event that the given message type
// may target. Invites go to guests who have not responded yet; reminders,
// updates, and cancellations go to guests who accepted. Opted-out guests are
// always excluded.
func (d *GuestDirectory) EligibleGuests(ctx context.Context, eventID string, messageType model.MessageType) ([]model.Guest, error) {
	wantStatus := "accepted"
	if messageType == model.MessageTypeInvite {
		wantStatus = "pending"
	}

	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, event_id, name, phone, invite_status, opted_out
		FROM guests
		WHERE event_id = $1 AND invite_status = $2 AND NOT opted_out
		ORDER BY id ASC`, eventID, wantStatus)
	if err != nil {
		return nil, fmt.Errorf("list eligible guests: %w", err)
	}
	defer closeRows(rows, d.logger, "list eligible guests")

	var guests []model.Guest
	for rows.Next() {
		var g model.Guest
		if scanErr := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Phone, &g.InviteStatus, &g.OptedOut); scanErr != nil {
			return nil, scanErr
		}
		guests = append(guests, g)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, rowsErr
	}
	return guests, nil
}

// ResolveContact returns the current outbound channel for one guest. Guests
// with no phone number, or who opted out after snapshot time, resolve to
// core.ErrNoContact and are skipped rather than failed.
func (d *GuestDirectory) ResolveContact(ctx context.Context, guestID string) (*model.Contact, error) {
	var (
		contact  model.Contact
		optedOut bool
	)
	err := d.DB.QueryRowContext(ctx,
		`SELECT id, name, phone, opted_out FROM guests WHERE id = $1`, guestID).
		Scan(&contact.GuestID, &contact.Name, &contact.Phone, &optedOut)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNoContact
		}
		return nil, fmt.Errorf("resolve contact: %w", err)
	}
	if optedOut || strings.TrimSpace(contact.Phone) == "" {
		return nil, core.ErrNoContact
	}
	return &contact, nil
}
