package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/repository"
)

var (
	ErrEmailAlreadyInUse     = errors.New("email already in use")
	ErrEmailAlreadyValidated = errors.New("email already validated")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotValidated     = errors.New("email not validated")
	ErrUserNotFound          = errors.New("user not found")

	// ErrInvalidOrExpiredCode covers every code validation failure: wrong
	// value, expired, already consumed, or unknown user. Callers must not
	// learn which one it was.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrInvalidOrExpiredToken is the token counterpart of
	// ErrInvalidOrExpiredCode.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)

// credentialIssuer issues, validates and consumes the short-lived secrets
// backing the credential flows: 6-digit one-time codes and opaque setup
// tokens. Validation never consumes; consumption is a separate step taken
// only after the dependent state mutation has succeeded.
type credentialIssuer struct {
	codeRepo  repository.OneTimeCodeRepository
	tokenRepo repository.SetupTokenRepository
}

// IssueCode invalidates any outstanding codes of the same purpose for the
// user and persists a fresh one, so at most one code per (user, purpose) is
// ever active.
func (i *credentialIssuer) IssueCode(
	ctx context.Context,
	userID bson.ObjectID,
	purpose model.CodePurpose,
	expiresIn time.Duration,
) (*model.OneTimeCode, error) {
	if err := i.codeRepo.DeleteCodesByPurpose(ctx, userID, purpose); err != nil {
		return nil, err
	}

	value, err := newCodeValue()
	if err != nil {
		return nil, err
	}

	return i.codeRepo.CreateCode(ctx, &model.OneTimeCode{
		UserID:    userID,
		Code:      value,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(expiresIn),
	})
}

// ValidateCode looks up an unexpired code matching the user, value and
// purpose exactly. Every failure cause collapses to ErrInvalidOrExpiredCode.
func (i *credentialIssuer) ValidateCode(
	ctx context.Context,
	userID bson.ObjectID,
	code string,
	purpose model.CodePurpose,
) (*model.OneTimeCode, error) {
	record, err := i.codeRepo.FindCode(ctx, userID, code, purpose)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	return record, nil
}

// ConsumeCode deletes exactly the validated code record, making it unusable
// for a second validation.
func (i *credentialIssuer) ConsumeCode(ctx context.Context, code *model.OneTimeCode) error {
	return i.codeRepo.DeleteCode(ctx, code.UserID, code.Code, code.Purpose)
}

// IssueToken persists a fresh opaque token for the user. Unlike codes,
// outstanding tokens of the same purpose are left untouched.
func (i *credentialIssuer) IssueToken(
	ctx context.Context,
	userID bson.ObjectID,
	purpose model.TokenPurpose,
	expiresIn time.Duration,
) (*model.SetupToken, error) {
	return i.tokenRepo.CreateToken(ctx, &model.SetupToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(expiresIn),
	})
}

// ValidateToken looks up an unexpired token by value and purpose. Every
// failure cause collapses to ErrInvalidOrExpiredToken.
func (i *credentialIssuer) ValidateToken(
	ctx context.Context,
	token string,
	purpose model.TokenPurpose,
) (*model.SetupToken, error) {
	record, err := i.tokenRepo.FindToken(ctx, token, purpose)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	return record, nil
}

// ConsumeToken deletes the validated token record.
func (i *credentialIssuer) ConsumeToken(ctx context.Context, token *model.SetupToken) error {
	return i.tokenRepo.DeleteToken(ctx, token.Token)
}

// newCodeValue draws a uniformly random 6-digit code in [100000, 999999].
func newCodeValue() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
