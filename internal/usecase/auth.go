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

// AuthUsecase defines the signup, verification and login use cases.
type AuthUsecase interface {
	// SignUp creates an unvalidated user, issues an email verification
	// code and delivers it. A retry for an existing unvalidated email
	// reissues the code without creating a second user.
	SignUp(ctx context.Context, params SignUpParams) (*model.User, error)

	// VerifyEmail validates the presented code and marks the user's email
	// as validated. The code is consumed only after the mutation succeeds.
	VerifyEmail(ctx context.Context, email, code string) (*model.User, error)

	// ResendVerification reissues the verification code for an existing
	// unvalidated user.
	ResendVerification(ctx context.Context, email string) error

	// Login verifies the user's credentials.
	Login(ctx context.Context, params LoginParams) (*model.User, error)
}

// SignUpParams defines the parameters for user signup. A non-empty
// CompanyName creates the company and makes the user its manager.
type SignUpParams struct {
	Email       string
	Password    string
	CompanyName string
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

type authUsecase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	issuer      credentialIssuer
	mailer      mailer.Sender
	cfg         *config.Config
	logger      *zerolog.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	codeRepo repository.OneTimeCodeRepository,
	tokenRepo repository.SetupTokenRepository,
	mailer mailer.Sender,
	cfg *config.Config,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		issuer:      credentialIssuer{codeRepo: codeRepo, tokenRepo: tokenRepo},
		mailer:      mailer,
		cfg:         cfg,
		logger:      logger,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (*model.User, error) {
	existing, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if existing != nil {
		if existing.EmailValidated {
			return nil, ErrEmailAlreadyInUse
		}

		// Pending signup retrying: reissue the code, keep the user.
		if err := u.issueAndDeliverVerification(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        params.Email,
		PasswordHash: &passwordHash,
		Role:         model.RoleEmployee,
	}

	if params.CompanyName != "" {
		company, err := u.companyRepo.CreateCompany(ctx, &model.Company{Name: params.CompanyName})
		if err != nil {
			return nil, err
		}
		user.Role = model.RoleManager
		user.CompanyID = &company.ID
	}

	user, err = u.userRepo.CreateUser(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}

	if err := u.issueAndDeliverVerification(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *authUsecase) VerifyEmail(ctx context.Context, email, code string) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Unknown email reads the same as a wrong code.
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	record, err := u.issuer.ValidateCode(ctx, user.ID, code, model.CodePurposeEmailVerify)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.MarkEmailValidated(ctx, user.ID.Hex()); err != nil {
		return nil, err
	}

	if err := u.issuer.ConsumeCode(ctx, record); err != nil {
		return nil, err
	}

	return u.userRepo.GetUser(ctx, user.ID.Hex())
}

func (u *authUsecase) ResendVerification(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	if user.EmailValidated {
		return ErrEmailAlreadyValidated
	}

	return u.issueAndDeliverVerification(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*model.User, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Invited users have no password until setup completes.
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if ok, err := security.VerifyPassword(params.Password, *user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailValidated {
		return nil, ErrEmailNotValidated
	}

	return user, nil
}

// issueAndDeliverVerification issues a fresh verification code and emails it.
// Delivery failure after the code is persisted is logged and tolerated; the
// user can fall back to the resend flow.
func (u *authUsecase) issueAndDeliverVerification(ctx context.Context, user *model.User) error {
	code, err := u.issuer.IssueCode(ctx, user.ID, model.CodePurposeEmailVerify, u.cfg.VerificationCodeExpiresIn)
	if err != nil {
		return err
	}

	if err := u.mailer.SendVerificationCode(user.Email, code.Code, u.cfg.VerificationCodeExpiresIn); err != nil {
		u.logger.Error().Err(err).Str("email", user.Email).Msg("failed to send verification email")
	}

	return nil
}
