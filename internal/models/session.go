package models

import "time"

// Session tracks an authenticated session with a sliding expiry window.
// Any authenticated activity extends ExpiresAt; a session past its expiry is
// treated as a forced logout, distinct from a generic authentication failure.
type Session struct {
	Base
	UserID         string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
}

// Expired reports whether the session's sliding window has lapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
