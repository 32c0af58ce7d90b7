package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamdeck/auth-service/internal/config"
	"github.com/teamdeck/auth-service/internal/mailer"
	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/repository"
	"github.com/teamdeck/auth-service/internal/security"
)

// InviteUsecase defines the link-based flows: employee invitation with
// password setup, and the legacy link-based password reset.
type InviteUsecase interface {
	// InviteEmployee creates a user without a password and emails a setup
	// link valid for the setup token TTL.
	InviteEmployee(ctx context.Context, params InviteEmployeeParams) (*model.User, error)

	// SetupPassword validates the setup token, sets the password, marks
	// the email as validated, then consumes the token.
	SetupPassword(ctx context.Context, token, password string) (*model.User, error)

	// RequestPasswordResetLink emails a link-based reset token. Unknown
	// emails succeed without side effects, like ForgotPassword.
	RequestPasswordResetLink(ctx context.Context, email string) error

	// ResetPasswordWithToken validates a link-based reset token, persists
	// the new password hash, then consumes the token.
	ResetPasswordWithToken(ctx context.Context, token, newPassword string) error
}

// InviteEmployeeParams defines the parameters for inviting an employee.
type InviteEmployeeParams struct {
	Email     string
	Category  string
	CompanyID *string
}

type inviteUsecase struct {
	userRepo repository.UserRepository
	issuer   credentialIssuer
	mailer   mailer.Sender
	cfg      *config.Config
	logger   *zerolog.Logger
}

// NewInviteUsecase creates a new instance of InviteUsecase.
func NewInviteUsecase(
	userRepo repository.UserRepository,
	codeRepo repository.OneTimeCodeRepository,
	tokenRepo repository.SetupTokenRepository,
	mailer mailer.Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) InviteUsecase {
	return &inviteUsecase{
		userRepo: userRepo,
		issuer:   credentialIssuer{codeRepo: codeRepo, tokenRepo: tokenRepo},
		mailer:   mailer,
		cfg:      cfg,
		logger:   logger,
	}
}

func (u *inviteUsecase) InviteEmployee(ctx context.Context, params InviteEmployeeParams) (*model.User, error) {
	if _, err := u.userRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailAlreadyInUse
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	user := &model.User{
		Email: params.Email,
		Role:  model.RoleEmployee,
	}
	if params.Category != "" {
		user.Category = &params.Category
	}
	if params.CompanyID != nil {
		companyID, err := bson.ObjectIDFromHex(*params.CompanyID)
		if err != nil {
			return nil, err
		}
		user.CompanyID = &companyID
	}

	user, err := u.userRepo.CreateUser(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}

	token, err := u.issuer.IssueToken(ctx, user.ID, model.TokenPurposePasswordSetup, u.cfg.PasswordSetupTokenExpiresIn)
	if err != nil {
		return nil, err
	}

	setupLink := fmt.Sprintf("%s?token=%s", u.cfg.AppPasswordSetupURL, token.Token)
	if err := u.mailer.SendInvitationEmail(user.Email, setupLink, u.cfg.PasswordSetupTokenExpiresIn); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send invitation email")
	}

	return user, nil
}

func (u *inviteUsecase) SetupPassword(ctx context.Context, token, password string) (*model.User, error) {
	record, err := u.issuer.ValidateToken(ctx, token, model.TokenPurposePasswordSetup)
	if err != nil {
		return nil, err
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdatePassword(ctx, record.UserID.Hex(), passwordHash); err != nil {
		return nil, err
	}

	if err := u.userRepo.MarkEmailValidated(ctx, record.UserID.Hex()); err != nil {
		return nil, err
	}

	if err := u.issuer.ConsumeToken(ctx, record); err != nil {
		return nil, err
	}

	return u.userRepo.GetUser(ctx, record.UserID.Hex())
}

func (u *inviteUsecase) RequestPasswordResetLink(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email does not exist.
			return nil
		}
		return err
	}

	token, err := u.issuer.IssueToken(ctx, user.ID, model.TokenPurposePasswordReset, u.cfg.PasswordResetTokenExpiresIn)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?token=%s", u.cfg.AppPasswordResetURL, token.Token)
	if err := u.mailer.SendPasswordResetLink(user.Email, resetLink, u.cfg.PasswordResetTokenExpiresIn); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send password reset link email")
	}

	return nil
}

func (u *inviteUsecase) ResetPasswordWithToken(ctx context.Context, token, newPassword string) error {
	record, err := u.issuer.ValidateToken(ctx, token, model.TokenPurposePasswordReset)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := u.userRepo.UpdatePassword(ctx, record.UserID.Hex(), passwordHash); err != nil {
		return err
	}

	return u.issuer.ConsumeToken(ctx, record)
}
