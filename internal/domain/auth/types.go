// Package auth defines the caller-identity types shared with the platform.
// Sessions are issued by the surrounding platform; this subsystem only reads
// them to authorize job operations.
package auth

import "time"

// Session is a platform-issued caller session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
