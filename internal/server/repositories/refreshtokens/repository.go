package refreshtokens

import (
	"context"
	"time"

	"github.com/beatstream/accounts/internal/server/models"
)

// Repository is the persisted allow-list of issued refresh tokens.
type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
