package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/beatstream/accounts/internal/common"
	"github.com/beatstream/accounts/internal/logging"
	"github.com/beatstream/accounts/internal/server/models"
	"github.com/beatstream/accounts/internal/server/password"
)

// captureMailer records the last code handed to it.
type captureMailer struct {
	lastEmail string
	lastCode  string
	sent      int
}

func (m *captureMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.lastEmail, m.lastCode = email, code
	m.sent++
	return nil
}

func (m *captureMailer) SendRecoveryCode(ctx context.Context, email, code string) error {
	m.lastEmail, m.lastCode = email, code
	m.sent++
	return nil
}

// staticVerifier accepts a single assertion value.
type staticVerifier struct {
	subject string
	email   string
}

func (v staticVerifier) Verify(ctx context.Context, provider, assertion string) (string, string, error) {
	if assertion != "good-assertion" {
		return "", "", errors.New("bad assertion")
	}
	return v.subject, v.email, nil
}

func newUserService(m *fakeRepoManager, mail *captureMailer, ext staticVerifier) *UserService {
	sessions := newSessionService(m)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewUserService(nil, m, sessions, mail, ext, logger)
}

func TestRegister_CreatesUnverifiedAccountAndMailsCode(t *testing.T) {
	m := newFakeRepoManager()
	mail := &captureMailer{}
	svc := newUserService(m, mail, staticVerifier{})

	u, err := svc.Register(context.Background(), "a@b.c", "pw", "Bob", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.EmailVerified {
		t.Fatal("new accounts must start unverified")
	}
	if u.AccountType != models.AccountTypeListener {
		t.Fatalf("default account type should be listener, got %q", u.AccountType)
	}
	if u.Slug == "" {
		t.Fatal("expected a generated slug")
	}
	if mail.sent != 1 || mail.lastEmail != "a@b.c" || mail.lastCode == "" {
		t.Fatalf("expected one verification mail, got %+v", mail)
	}
}

func TestRegister_RejectsBadAccountType(t *testing.T) {
	svc := newUserService(newFakeRepoManager(), &captureMailer{}, staticVerifier{})

	_, err := svc.Register(context.Background(), "a@b.c", "pw", "Bob", "admin")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want common.ErrorValidation, got %v", err)
	}
}

func TestLogin_RequiresVerifiedEmail(t *testing.T) {
	m := newFakeRepoManager()
	mail := &captureMailer{}
	svc := newUserService(m, mail, staticVerifier{})

	if _, err := svc.Register(context.Background(), "a@b.c", "pw", "Bob", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@b.c", "pw"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("unverified login should fail, got %v", err)
	}

	pair, err := svc.ConfirmEmail(context.Background(), "a@b.c", mail.lastCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("confirm should sign the client in")
	}

	user, pair2, err := svc.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "a@b.c" || pair2.AccessToken == "" {
		t.Fatalf("unexpected login result: %+v %+v", user, pair2)
	}
}

func TestLogin_GenericErrorForUnknownAndWrongPassword(t *testing.T) {
	m := newFakeRepoManager()
	mail := &captureMailer{}
	svc := newUserService(m, mail, staticVerifier{})

	if _, err := svc.Register(context.Background(), "a@b.c", "pw", "Bob", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ConfirmEmail(context.Background(), "a@b.c", mail.lastCode); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, errUnknown := svc.Login(context.Background(), "missing@b.c", "pw")
	_, _, errWrongPw := svc.Login(context.Background(), "a@b.c", "nope")
	if !errors.Is(errUnknown, common.ErrorUnauthorized) || !errors.Is(errWrongPw, common.ErrorUnauthorized) {
		t.Fatalf("both failures must be unauthorized, got %v / %v", errUnknown, errWrongPw)
	}
}

func TestConfirmEmail_WrongCode(t *testing.T) {
	m := newFakeRepoManager()
	mail := &captureMailer{}
	svc := newUserService(m, mail, staticVerifier{})

	if _, err := svc.Register(context.Background(), "a@b.c", "pw", "Bob", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ConfirmEmail(context.Background(), "a@b.c", "ffffff"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want unauthorized for wrong code, got %v", err)
	}
}

func TestResendVerification_SilentForUnknownAddress(t *testing.T) {
	mail := &captureMailer{}
	svc := newUserService(newFakeRepoManager(), mail, staticVerifier{})

	if err := svc.ResendVerification(context.Background(), "missing@b.c"); err != nil {
		t.Fatalf("must be silent for unknown address, got %v", err)
	}
	if mail.sent != 0 {
		t.Fatal("nothing should be mailed for unknown addresses")
	}
}

func TestExternalLogin_CreatesThenReusesAccount(t *testing.T) {
	m := newFakeRepoManager()
	svc := newUserService(m, &captureMailer{}, staticVerifier{subject: "google:123", email: "ext@b.c"})

	user1, pair, err := svc.ExternalLogin(context.Background(), "google", "good-assertion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user1.EmailVerified {
		t.Fatal("externally created accounts are verified")
	}
	if pair.RefreshToken == "" {
		t.Fatal("expected a session")
	}

	user2, _, err := svc.ExternalLogin(context.Background(), "google", "good-assertion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user2.ID != user1.ID {
		t.Fatalf("second login must reuse the account: %q vs %q", user2.ID, user1.ID)
	}
}

func TestExternalLogin_BadAssertion(t *testing.T) {
	svc := newUserService(newFakeRepoManager(), &captureMailer{}, staticVerifier{})

	_, _, err := svc.ExternalLogin(context.Background(), "google", "forged")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want unauthorized, got %v", err)
	}
}

func TestConfirmRecovery_SetsPasswordAndRevokesSessions(t *testing.T) {
	m := newFakeRepoManager()
	mail := &captureMailer{}
	svc := newUserService(m, mail, staticVerifier{})

	if _, err := svc.Register(context.Background(), "a@b.c", "old", "Bob", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair, err := svc.ConfirmEmail(context.Background(), "a@b.c", mail.lastCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RequestRecovery(context.Background(), "a@b.c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ConfirmRecovery(context.Background(), "a@b.c", mail.lastCode, "new"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ := m.users.GetByEmail(context.Background(), "a@b.c")
	if !password.Verify(user.PasswordHash, "new") {
		t.Fatal("password was not updated")
	}
	if _, err := svc.sessions.ValidateRefreshToken(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrRefreshTokenInvalid) {
		t.Fatalf("recovery must revoke open sessions, got %v", err)
	}
}

func TestRequestRecovery_SilentForUnknownAddress(t *testing.T) {
	mail := &captureMailer{}
	svc := newUserService(newFakeRepoManager(), mail, staticVerifier{})

	if err := svc.RequestRecovery(context.Background(), "missing@b.c"); err != nil {
		t.Fatalf("must be silent for unknown address, got %v", err)
	}
	if mail.sent != 0 {
		t.Fatal("nothing should be mailed for unknown addresses")
	}
}
