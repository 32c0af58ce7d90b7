package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdeck/auth-service/internal/config"
	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/security"
)

type fixture struct {
	userRepo    *fakeUserRepo
	companyRepo *fakeCompanyRepo
	codeRepo    *fakeCodeRepo
	tokenRepo   *fakeTokenRepo
	mailer      *fakeMailer
	cfg         *config.Config

	auth          AuthUsecase
	passwordReset PasswordResetUsecase
	invite        InviteUsecase
}

func newFixture() *fixture {
	f := &fixture{
		userRepo:    newFakeUserRepo(),
		companyRepo: newFakeCompanyRepo(),
		codeRepo:    newFakeCodeRepo(),
		tokenRepo:   newFakeTokenRepo(),
		mailer:      newFakeMailer(),
		cfg: &config.Config{
			AppPasswordSetupURL:         "https://app.example.com/setup-password",
			AppPasswordResetURL:         "https://app.example.com/reset-password",
			VerificationCodeExpiresIn:   10 * time.Minute,
			PasswordResetCodeExpiresIn:  10 * time.Minute,
			PasswordSetupTokenExpiresIn: 24 * time.Hour,
			PasswordResetTokenExpiresIn: time.Hour,
		},
	}

	logger := zerolog.Nop()
	f.auth = NewAuthUsecase(f.userRepo, f.companyRepo, f.codeRepo, f.tokenRepo, f.mailer, f.cfg, &logger)
	f.passwordReset = NewPasswordResetUsecase(f.userRepo, f.codeRepo, f.tokenRepo, f.mailer, f.cfg, &logger)
	f.invite = NewInviteUsecase(f.userRepo, f.codeRepo, f.tokenRepo, f.mailer, f.cfg, &logger)

	return f
}

var sixDigits = regexp.MustCompile(`^[1-9]\d{5}$`)

func TestSignUpCreatesUserAndSingleActiveCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1", CompanyName: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.userRepo.count())
	assert.Equal(t, model.RoleManager, user.Role)
	assert.False(t, user.EmailValidated)
	require.NotNil(t, user.CompanyID)
	require.NotNil(t, user.PasswordHash)

	company, err := f.companyRepo.GetCompany(ctx, user.CompanyID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)

	codes := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, codes, 1)
	assert.Regexp(t, sixDigits, codes[0].Code)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), codes[0].ExpiresAt, time.Minute)

	sent := f.mailer.sentEmails()
	require.Len(t, sent, 1)
	assert.Equal(t, "verification", sent[0].kind)
	assert.Equal(t, "a@x.com", sent[0].to)
	assert.Equal(t, codes[0].Code, sent[0].value)
}

func TestSignUpWithoutCompanyCreatesEmployee(t *testing.T) {
	f := newFixture()

	user, err := f.auth.SignUp(context.Background(), SignUpParams{Email: "b@x.com", Password: "pw1"})
	require.NoError(t, err)

	assert.Equal(t, model.RoleEmployee, user.Role)
	assert.Nil(t, user.CompanyID)
}

func TestSignUpValidatedEmailRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	require.NoError(t, f.userRepo.MarkEmailValidated(ctx, user.ID.Hex()))

	_, err = f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, ErrEmailAlreadyInUse)
	assert.Equal(t, 1, f.userRepo.count())
}

func TestSignUpRetryForUnvalidatedEmailReissuesCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	first := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, first, 1)

	retry, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, retry.ID)
	assert.Equal(t, 1, f.userRepo.count())

	// The old code is gone; exactly one code remains active.
	second := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestVerifyEmailConsumesCodeExactlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1", CompanyName: "Acme"})
	require.NoError(t, err)
	codes := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, codes, 1)
	code := codes[0].Code

	// Wrong code fails generically and leaves the user unvalidated.
	_, err = f.auth.VerifyEmail(ctx, "a@x.com", "000000")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
	stored, err := f.userRepo.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.EmailValidated)

	verified, err := f.auth.VerifyEmail(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.True(t, verified.EmailValidated)
	require.NotNil(t, verified.LastValidatedAt)

	// Replaying the consumed code fails with the same generic error.
	_, err = f.auth.VerifyEmail(ctx, "a@x.com", code)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestVerifyEmailUnknownEmailIndistinguishable(t *testing.T) {
	f := newFixture()

	_, err := f.auth.VerifyEmail(context.Background(), "nobody@x.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	require.NoError(t, f.codeRepo.DeleteCodesByPurpose(ctx, user.ID, model.CodePurposeEmailVerify))

	f.codeRepo.insert(model.OneTimeCode{
		UserID:    user.ID,
		Code:      "654321",
		Purpose:   model.CodePurposeEmailVerify,
		ExpiresAt: time.Now().Add(-time.Second),
	})

	_, err = f.auth.VerifyEmail(ctx, "a@x.com", "654321")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)
}

func TestResendVerification(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	first := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, first, 1)

	require.NoError(t, f.auth.ResendVerification(ctx, "a@x.com"))

	// Resend invalidates the outstanding code before issuing a new one.
	second := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	assert.ErrorIs(t, f.auth.ResendVerification(ctx, "nobody@x.com"), ErrUserNotFound)

	require.NoError(t, f.userRepo.MarkEmailValidated(ctx, user.ID.Hex()))
	assert.ErrorIs(t, f.auth.ResendVerification(ctx, "a@x.com"), ErrEmailAlreadyValidated)
}

func TestSignUpSucceedsWhenDeliveryFails(t *testing.T) {
	f := newFixture()
	f.mailer.err = errSMTPDown
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	// The code stays valid even though the email never went out.
	codes := f.codeRepo.codesFor(user.ID, model.CodePurposeEmailVerify)
	assert.Len(t, codes, 1)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.auth.SignUp(ctx, SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	// Email not yet validated.
	_, err = f.auth.Login(ctx, LoginParams{Email: "a@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, ErrEmailNotValidated)

	require.NoError(t, f.userRepo.MarkEmailValidated(ctx, user.ID.Hex()))

	got, err := f.auth.Login(ctx, LoginParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.auth.Login(ctx, LoginParams{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, LoginParams{Email: "nobody@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInvitedUserWithoutPassword(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.invite.InviteEmployee(ctx, InviteEmployeeParams{Email: "new@x.com", Category: "support"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, LoginParams{Email: "new@x.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordHashIsNotPlaintext(t *testing.T) {
	f := newFixture()

	user, err := f.auth.SignUp(context.Background(), SignUpParams{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	require.NotNil(t, user.PasswordHash)

	assert.NotEqual(t, "pw1", *user.PasswordHash)
	ok, err := security.VerifyPassword("pw1", *user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
