package models

import "time"

// RefreshToken is a persisted long-lived credential. A token is usable iff
// Revoked is false and ExpiresAt is in the future. Revocation only flips the
// flag; physical deletion is deferred to the maintenance sweeper.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}
