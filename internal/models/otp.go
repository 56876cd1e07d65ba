package models

import "time"

// OTPRecord — one pending verification challenge. At most one live record per
// user; a new request replaces the old one. Fields are never mutated after
// creation (a wrong guess does not touch the record).
type OTPRecord struct {
	UserID    int64     `json:"user_id"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"code_hash"` // bcrypt of the 6-digit code
	SentAt    time.Time `json:"sent_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is past its TTL at the given instant.
// Boundary rule: expiry is strictly after ExpiresAt, equality is still valid.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
