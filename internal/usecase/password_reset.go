package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamdeck/auth-service/internal/config"
	"github.com/teamdeck/auth-service/internal/mailer"
	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/repository"
	"github.com/teamdeck/auth-service/internal/security"
)

// PasswordResetUsecase defines the business logic for the OTP-based password
// reset flow.
type PasswordResetUsecase interface {
	// ForgotPassword initiates the password reset process for a given
	// email. Unknown emails succeed without side effects so callers
	// cannot probe for accounts.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword validates the code, persists the new password hash,
	// then consumes the code.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo repository.UserRepository
	issuer   credentialIssuer
	mailer   mailer.Sender
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	codeRepo repository.OneTimeCodeRepository,
	tokenRepo repository.SetupTokenRepository,
	mailer mailer.Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo: userRepo,
		issuer:   credentialIssuer{codeRepo: codeRepo, tokenRepo: tokenRepo},
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *passwordResetUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email does not exist.
			return nil
		}
		return err
	}

	code, err := u.issuer.IssueCode(ctx, user.ID, model.CodePurposePasswordReset, u.cfg.PasswordResetCodeExpiresIn)
	if err != nil {
		return err
	}

	if err := u.mailer.SendPasswordResetCode(user.Email, code.Code, u.cfg.PasswordResetCodeExpiresIn); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset email")
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredCode
		}
		return err
	}

	record, err := u.issuer.ValidateCode(ctx, user.ID, code, model.CodePurposePasswordReset)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := u.userRepo.UpdatePassword(ctx, user.ID.Hex(), passwordHash); err != nil {
		return err
	}

	return u.issuer.ConsumeCode(ctx, record)
}
