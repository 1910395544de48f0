package models

import "time"

// Session is the single active login record. It is stored under a fixed
// key, so at most one session exists at a time; a new login replaces the
// previous one.
type Session struct {
	ID      string    `json:"id"`
	TRN     string    `json:"trn"`
	IsAdmin bool      `json:"is_admin"`
	Expiry  time.Time `json:"expiry"`
}

// Expired reports whether the session's TTL has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.Expiry)
}
