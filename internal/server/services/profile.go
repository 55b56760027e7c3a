package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/server/models"
	"github.com/beatstream/accounts/internal/server/repositories/repomanager"
)

const trendingLimit = 20

// ProfileService serves account profiles and the routine catalog plumbing
// hanging off them: payment methods, social links, follows and artist
// lookups.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

func (s *ProfileService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

func (s *ProfileService) GetBySlug(ctx context.Context, slug string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetBySlug(ctx, slug)
}

// UpdateProfile changes the caller's display name, keeping the stored avatar
// key intact.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID, displayName string) (*models.User, error) {
	if displayName == "" {
		return nil, common.ErrorValidation
	}
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.UpdateProfile(ctx, userID, displayName, user.AvatarKey); err != nil {
		return nil, err
	}
	user.DisplayName = displayName
	return user, nil
}

// SetAvatarKey records the storage key of a freshly uploaded avatar.
func (s *ProfileService) SetAvatarKey(ctx context.Context, userID, avatarKey string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return repo.UpdateProfile(ctx, userID, user.DisplayName, avatarKey)
}

func (s *ProfileService) AddPaymentMethod(ctx context.Context, userID, provider, last4, label string) (*models.PaymentMethod, error) {
	if provider == "" || len(last4) != 4 {
		return nil, common.ErrorValidation
	}
	pm := &models.PaymentMethod{UserID: userID, Provider: provider, Last4: last4, Label: label}
	return s.repomanager.PaymentMethods(s.db).Create(ctx, pm)
}

func (s *ProfileService) ListPaymentMethods(ctx context.Context, userID string) ([]*models.PaymentMethod, error) {
	return s.repomanager.PaymentMethods(s.db).ListByUser(ctx, userID)
}

func (s *ProfileService) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	return s.repomanager.PaymentMethods(s.db).Delete(ctx, userID, id)
}

func (s *ProfileService) AddSocialLink(ctx context.Context, userID, platform, url string) (*models.SocialLink, error) {
	if platform == "" || url == "" {
		return nil, common.ErrorValidation
	}
	link := &models.SocialLink{UserID: userID, Platform: platform, URL: url}
	return s.repomanager.SocialLinks(s.db).Create(ctx, link)
}

func (s *ProfileService) ListSocialLinks(ctx context.Context, userID string) ([]*models.SocialLink, error) {
	return s.repomanager.SocialLinks(s.db).ListByUser(ctx, userID)
}

func (s *ProfileService) DeleteSocialLink(ctx context.Context, userID, id string) error {
	return s.repomanager.SocialLinks(s.db).Delete(ctx, userID, id)
}

// Follow records that the user follows an artist. The artist must exist;
// following twice is a no-op.
func (s *ProfileService) Follow(ctx context.Context, userID string, artistID int64) error {
	if _, err := s.repomanager.Artists(s.db).GetByID(ctx, artistID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error checking artist: %w", err)
	}
	return s.repomanager.Follows(s.db).Create(ctx, userID, artistID)
}

func (s *ProfileService) Unfollow(ctx context.Context, userID string, artistID int64) error {
	return s.repomanager.Follows(s.db).Delete(ctx, userID, artistID)
}

func (s *ProfileService) ListFollows(ctx context.Context, userID string) ([]*models.Follow, error) {
	return s.repomanager.Follows(s.db).ListByUser(ctx, userID)
}

func (s *ProfileService) GetArtist(ctx context.Context, artistID int64) (*models.Artist, error) {
	return s.repomanager.Artists(s.db).GetByID(ctx, artistID)
}

// ArtistFollowerCount reports how many accounts follow an artist.
func (s *ProfileService) ArtistFollowerCount(ctx context.Context, artistID int64) (int64, error) {
	return s.repomanager.Follows(s.db).CountByArtist(ctx, artistID)
}

// TrendingArtists lists the most-followed artists.
func (s *ProfileService) TrendingArtists(ctx context.Context) ([]*models.Artist, error) {
	return s.repomanager.Artists(s.db).Trending(ctx, trendingLimit)
}
