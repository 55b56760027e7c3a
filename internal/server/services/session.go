// Package services contains server-side business logic. This file implements
// SessionService, which mints access tokens, manages the persisted refresh
// token allow-list, and purges expired entries.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/server/config"
	"github.com/beatstream/accounts/internal/server/models"
	"github.com/beatstream/accounts/internal/server/repositories/repomanager"
	"github.com/beatstream/accounts/internal/server/token"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionService owns the session lifecycle: issuing token pairs on login,
// validating refresh tokens, and revoking sessions on logout.
type SessionService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *token.Codec
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, codec *token.Codec, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                           db,
		repomanager:                  m,
		codec:                        codec,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// IssueAccessToken mints a signed access token carrying the user's identity
// claims.
func (s *SessionService) IssueAccessToken(user *models.User) (string, error) {
	tok, err := s.codec.Issue(user.ID, user.Email, user.AccountType, user.ArtistID, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error issuing access token: %w", err)
	}
	return tok, nil
}

// IssueRefreshToken stores and returns a fresh opaque refresh token for the
// user: 32 random bytes hex-encoded, one new unrevoked row.
func (s *SessionService) IssueRefreshToken(ctx context.Context, userID string) (string, error) {
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return "", common.ErrorInternal
	}
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return "", common.ErrorInternal
	}
	return refresh, nil
}

// IssuePair mints an access token and stores a fresh refresh token for the
// user.
func (s *SessionService) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateRefreshToken looks up a refresh token and checks that it is neither
// revoked nor expired. An absent token yields common.ErrRefreshTokenNotFound;
// a revoked or expired one yields common.ErrRefreshTokenInvalid. Callers must
// present both failures to clients identically.
func (s *SessionService) ValidateRefreshToken(ctx context.Context, refreshToken string) (*models.RefreshToken, error) {
	repo := s.repomanager.RefreshTokens(s.db)
	tok, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if tok.Revoked || !time.Now().Before(tok.ExpiresAt) {
		return nil, common.ErrRefreshTokenInvalid
	}
	return tok, nil
}

// Refresh validates a refresh token and mints a new access token for its
// owner. The refresh token itself stays valid until logout or expiry.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	tok, err := s.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, tok.UserID)
	if err != nil {
		return "", fmt.Errorf("error loading token owner: %w", err)
	}
	return s.IssueAccessToken(user)
}

// Revoke marks a refresh token revoked. Revoking an unknown or already
// revoked token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, refreshToken string) error {
	return s.repomanager.RefreshTokens(s.db).Revoke(ctx, refreshToken)
}

// RevokeAll revokes every refresh token belonging to the user, ending all of
// their sessions at once.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	return s.repomanager.RefreshTokens(s.db).RevokeAllForUser(ctx, userID)
}

// PurgeExpired deletes refresh tokens past their expiry, revoked or not, and
// reports how many rows were removed.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx)
}
