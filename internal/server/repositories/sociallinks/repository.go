// Package sociallinks stores external profile links shown on a public page.
package sociallinks

import (
	"context"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, link *models.SocialLink) (*models.SocialLink, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SocialLink, error)
	Delete(ctx context.Context, userID, id string) error
}
