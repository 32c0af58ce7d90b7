package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenPurpose tags a setup token with the single flow it is valid for.
type TokenPurpose string

const (
	TokenPurposePasswordSetup TokenPurpose = "password_setup"
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

// SetupToken represents an opaque single-use credential used in link-based
// flows: password setup after an invitation (24h) and link-based password
// reset (1h). Consumed by deletion, like OneTimeCode.
type SetupToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"user_id"`
	Token     string        `bson:"token"`
	Purpose   TokenPurpose  `bson:"purpose"`
	ExpiresAt time.Time     `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
}
