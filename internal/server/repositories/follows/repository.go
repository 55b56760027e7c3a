// Package follows stores listener-to-artist follow relations.
package follows

import (
	"context"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	// Create records a follow. Following an already-followed artist is a no-op.
	Create(ctx context.Context, userID string, artistID int64) error
	Delete(ctx context.Context, userID string, artistID int64) error
	ListByUser(ctx context.Context, userID string) ([]*models.Follow, error)
	CountByArtist(ctx context.Context, artistID int64) (int64, error)
}
