package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teamdeck/auth-service/internal/model"
	"github.com/teamdeck/auth-service/internal/repository"
)

// In-memory fakes for the repository interfaces and the mail sender. They
// mirror the Mongo behavior the use cases rely on: ErrNoDocuments on misses,
// duplicate key errors on unique email collisions, and expiry filtering on
// code/token lookups.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by hex ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}

	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID.Hex()] = user

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.PasswordHash = &passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) MarkEmailValidated(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	now := time.Now()
	user.EmailValidated = true
	user.LastValidatedAt = &now
	user.UpdatedAt = now
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeCompanyRepo struct {
	mu        sync.Mutex
	companies map[string]*model.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[string]*model.Company)}
}

func (r *fakeCompanyRepo) CreateCompany(_ context.Context, company *model.Company) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company.ID = bson.NewObjectID()
	now := time.Now()
	company.CreatedAt = now
	company.UpdatedAt = now
	r.companies[company.ID.Hex()] = company

	return company, nil
}

func (r *fakeCompanyRepo) GetCompany(_ context.Context, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	company, ok := r.companies[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return company, nil
}

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes []model.OneTimeCode
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{}
}

func (r *fakeCodeRepo) CreateCode(_ context.Context, code *model.OneTimeCode) (*model.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code.ID = bson.NewObjectID()
	code.CreatedAt = time.Now()
	r.codes = append(r.codes, *code)

	return code, nil
}

func (r *fakeCodeRepo) FindCode(
	_ context.Context,
	userID bson.ObjectID,
	code string,
	purpose model.CodePurpose,
) (*model.OneTimeCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.codes {
		c := r.codes[i]
		if c.UserID == userID && c.Code == code && c.Purpose == purpose && c.ExpiresAt.After(time.Now()) {
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCodeRepo) DeleteCode(
	_ context.Context,
	userID bson.ObjectID,
	code string,
	purpose model.CodePurpose,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.codes[:0]
	for _, c := range r.codes {
		if c.UserID == userID && c.Code == code && c.Purpose == purpose {
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return nil
}

func (r *fakeCodeRepo) DeleteCodesByPurpose(
	_ context.Context,
	userID bson.ObjectID,
	purpose model.CodePurpose,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.codes[:0]
	for _, c := range r.codes {
		if c.UserID == userID && c.Purpose == purpose {
			continue
		}
		kept = append(kept, c)
	}
	r.codes = kept
	return nil
}

// codesFor returns the stored codes for a user and purpose, expired ones
// included.
func (r *fakeCodeRepo) codesFor(userID bson.ObjectID, purpose model.CodePurpose) []model.OneTimeCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.OneTimeCode
	for _, c := range r.codes {
		if c.UserID == userID && c.Purpose == purpose {
			out = append(out, c)
		}
	}
	return out
}

func (r *fakeCodeRepo) insert(code model.OneTimeCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	code.ID = bson.NewObjectID()
	r.codes = append(r.codes, code)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens []model.SetupToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{}
}

func (r *fakeTokenRepo) CreateToken(_ context.Context, token *model.SetupToken) (*model.SetupToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token.ID = bson.NewObjectID()
	token.CreatedAt = time.Now()
	r.tokens = append(r.tokens, *token)

	return token, nil
}

func (r *fakeTokenRepo) FindToken(
	_ context.Context,
	token string,
	purpose model.TokenPurpose,
) (*model.SetupToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tokens {
		t := r.tokens[i]
		if t.Token == token && t.Purpose == purpose && t.ExpiresAt.After(time.Now()) {
			return &t, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTokenRepo) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if t.Token == token {
			continue
		}
		kept = append(kept, t)
	}
	r.tokens = kept
	return nil
}

func (r *fakeTokenRepo) tokensFor(userID bson.ObjectID, purpose model.TokenPurpose) []model.SetupToken {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.SetupToken
	for _, t := range r.tokens {
		if t.UserID == userID && t.Purpose == purpose {
			out = append(out, t)
		}
	}
	return out
}

func (r *fakeTokenRepo) insert(token model.SetupToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = bson.NewObjectID()
	r.tokens = append(r.tokens, token)
}

// sentEmail records one delivery made through the fake mailer.
type sentEmail struct {
	kind  string // "verification", "reset_code", "invitation", "reset_link"
	to    string
	value string // the code or link
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error // when set, every send fails with this error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{}
}

func (m *fakeMailer) record(kind, to, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{kind: kind, to: to, value: value})
	return nil
}

func (m *fakeMailer) SendVerificationCode(to, code string, _ time.Duration) error {
	return m.record("verification", to, code)
}

func (m *fakeMailer) SendPasswordResetCode(to, code string, _ time.Duration) error {
	return m.record("reset_code", to, code)
}

func (m *fakeMailer) SendInvitationEmail(to, setupLink string, _ time.Duration) error {
	return m.record("invitation", to, setupLink)
}

func (m *fakeMailer) SendPasswordResetLink(to, resetLink string, _ time.Duration) error {
	return m.record("reset_link", to, resetLink)
}

func (m *fakeMailer) sentEmails() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

var errSMTPDown = errors.New("smtp connection refused")

// interface conformance
var (
	_ repository.UserRepository        = (*fakeUserRepo)(nil)
	_ repository.CompanyRepository     = (*fakeCompanyRepo)(nil)
	_ repository.OneTimeCodeRepository = (*fakeCodeRepo)(nil)
	_ repository.SetupTokenRepository  = (*fakeTokenRepo)(nil)
)
