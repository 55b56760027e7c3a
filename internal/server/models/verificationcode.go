package models

import "time"

// Verification code purposes.
const (
	CodePurposeVerifyEmail   = "verify_email"
	CodePurposePasswordReset = "password_reset"
)

// VerificationCode is a short-lived one-time code delivered by email for
// address verification or password recovery.
type VerificationCode struct {
	ID        string
	UserID    string
	Purpose   string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
