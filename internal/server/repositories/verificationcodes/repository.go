// Package verificationcodes stores one-time email codes for address
// verification and password recovery.
package verificationcodes

import (
	"context"
	"time"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	// Create stores a code for the given purpose, replacing any previous
	// unconsumed code the user holds for that purpose.
	Create(ctx context.Context, userID, purpose, code string, validity time.Duration) (*models.VerificationCode, error)
	// Find returns the stored code for userID and purpose if it matches and
	// has not expired.
	Find(ctx context.Context, userID, purpose, code string) (*models.VerificationCode, error)
	// Consume deletes the user's codes for a purpose once one has been used.
	Consume(ctx context.Context, userID, purpose string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
