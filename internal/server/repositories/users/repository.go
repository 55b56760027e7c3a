package users

import (
	"context"

	"github.com/beatstream/accounts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetBySlug(ctx context.Context, slug string) (*models.User, error)
	GetByExternalSubject(ctx context.Context, subject string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, displayName, avatarKey string) error
	MarkEmailVerified(ctx context.Context, id string) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	SetExternalSubject(ctx context.Context, id, subject string) error
	Delete(ctx context.Context, id string) error
}
