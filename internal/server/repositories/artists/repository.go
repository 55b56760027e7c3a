// Package artists provides persistence for artist catalog entries.
package artists

import (
	"context"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, artist *models.Artist) (*models.Artist, error)
	GetByID(ctx context.Context, id int64) (*models.Artist, error)
	// Trending returns the artists with the most followers, capped at limit.
	Trending(ctx context.Context, limit int) ([]*models.Artist, error)
}
