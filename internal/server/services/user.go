package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/logging"
	"github.com/beatstream/accounts/internal/server/extidentity"
	"github.com/beatstream/accounts/internal/server/mailer"
	"github.com/beatstream/accounts/internal/server/models"
	"github.com/beatstream/accounts/internal/server/password"
	"github.com/beatstream/accounts/internal/server/repositories/repomanager"
)

const (
	slugHexLen = 8
	codeHexLen = 3

	verificationValidity = 24 * time.Hour
)

// UserService handles account registration, credential login, email
// verification and password recovery. Token minting is delegated to
// SessionService.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    *SessionService
	mail        mailer.Mailer
	external    extidentity.Verifier
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService,
	mail mailer.Mailer, external extidentity.Verifier, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		mail:        mail,
		external:    external,
		logger:      logger,
	}
}

// Register creates an unverified account and mails a verification code. The
// account cannot log in until the code is confirmed.
func (s *UserService) Register(ctx context.Context, email, plainPassword, displayName, accountType string) (*models.User, error) {
	if email == "" || plainPassword == "" {
		return nil, common.ErrorValidation
	}
	if accountType == "" {
		accountType = models.AccountTypeListener
	}
	if accountType != models.AccountTypeListener && accountType != models.AccountTypeArtist {
		return nil, common.ErrorValidation
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, common.ErrorInternal
	}
	slug, err := common.MakeRandHexString(slugHexLen)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Slug:         slug,
		AccountType:  accountType,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if err := s.sendCode(ctx, u, models.CodePurposeVerifyEmail); err != nil {
		return nil, err
	}
	return u, nil
}

// ConfirmEmail checks a verification code, marks the address verified, and
// returns a token pair so the client is signed in immediately.
func (s *UserService) ConfirmEmail(ctx context.Context, email, code string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	codes := s.repomanager.VerificationCodes(s.db)
	if _, err := codes.Find(ctx, user.ID, models.CodePurposeVerifyEmail, code); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.Users(s.db).MarkEmailVerified(ctx, user.ID); err != nil {
		return nil, common.ErrorInternal
	}
	if err := codes.Consume(ctx, user.ID, models.CodePurposeVerifyEmail); err != nil {
		return nil, common.ErrorInternal
	}
	user.EmailVerified = true
	return s.sessions.IssuePair(ctx, user)
}

// ResendVerification issues a fresh code for an unverified account. The
// response is the same whether or not the address exists.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendCode(ctx, user, models.CodePurposeVerifyEmail)
}

// Login verifies credentials and mints a token pair. Unknown addresses, bad
// passwords and unverified accounts all map to the same unauthorized error.
func (s *UserService) Login(ctx context.Context, email, plainPassword string) (*models.User, *TokenPair, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !password.Verify(user.PasswordHash, plainPassword) {
		return nil, nil, common.ErrorUnauthorized
	}
	if !user.EmailVerified {
		return nil, nil, common.ErrorUnauthorized
	}
	pair, err := s.sessions.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// ExternalLogin validates an external identity assertion and signs in the
// matching account, creating one on first sight of the subject.
func (s *UserService) ExternalLogin(ctx context.Context, provider, assertion string) (*models.User, *TokenPair, error) {
	subject, email, err := s.external.Verify(ctx, provider, assertion)
	if err != nil {
		return nil, nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByExternalSubject(ctx, subject)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorInternal
		}
		user, err = s.attachOrCreateExternal(ctx, subject, email)
		if err != nil {
			return nil, nil, err
		}
	}

	pair, err := s.sessions.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RequestRecovery mails a password-reset code. Unknown addresses are treated
// exactly like known ones so the endpoint cannot be used for enumeration.
func (s *UserService) RequestRecovery(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	return s.sendCode(ctx, user, models.CodePurposePasswordReset)
}

// ConfirmRecovery sets a new password after checking the reset code and
// revokes every open session for the account.
func (s *UserService) ConfirmRecovery(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return common.ErrorValidation
	}
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	codes := s.repomanager.VerificationCodes(s.db)
	if _, err := codes.Find(ctx, user.ID, models.CodePurposePasswordReset, code); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}
	if err := s.repomanager.Users(s.db).SetPassword(ctx, user.ID, hash); err != nil {
		return common.ErrorInternal
	}
	if err := codes.Consume(ctx, user.ID, models.CodePurposePasswordReset); err != nil {
		return common.ErrorInternal
	}
	return s.sessions.RevokeAll(ctx, user.ID)
}

func (s *UserService) attachOrCreateExternal(ctx context.Context, subject, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	// an existing password account with the same verified email is linked
	// rather than duplicated
	if user, err := repo.GetByEmail(ctx, email); err == nil {
		if err := repo.SetExternalSubject(ctx, user.ID, subject); err != nil {
			return nil, common.ErrorInternal
		}
		user.ExternalSubject = subject
		return user, nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	slug, err := common.MakeRandHexString(slugHexLen)
	if err != nil {
		return nil, common.ErrorInternal
	}
	user := &models.User{
		Email:           email,
		Slug:            slug,
		AccountType:     models.AccountTypeListener,
		ExternalSubject: subject,
		EmailVerified:   true, // provider already verified the address
	}
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return u, nil
}

// PurgeExpired deletes one-time codes past their expiry.
func (s *UserService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repomanager.VerificationCodes(s.db).DeleteExpired(ctx)
}

func (s *UserService) sendCode(ctx context.Context, user *models.User, purpose string) error {
	code, err := common.MakeRandHexString(codeHexLen)
	if err != nil {
		return common.ErrorInternal
	}
	if _, err := s.repomanager.VerificationCodes(s.db).Create(ctx, user.ID, purpose, code, verificationValidity); err != nil {
		return common.ErrorInternal
	}
	var send func(context.Context, string, string) error
	if purpose == models.CodePurposePasswordReset {
		send = s.mail.SendRecoveryCode
	} else {
		send = s.mail.SendVerificationCode
	}
	if err := send(ctx, user.Email, code); err != nil {
		s.logger.Error(ctx, "code delivery failed", "email", user.Email, "purpose", purpose, "error", err)
		return common.ErrorInternal
	}
	return nil
}
