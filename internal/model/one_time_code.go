package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CodePurpose tags a one-time code with the single flow it is valid for.
type CodePurpose string

const (
	CodePurposeEmailVerify   CodePurpose = "email_verify"
	CodePurposePasswordReset CodePurpose = "password_reset"
)

// OneTimeCode represents a short-lived 6-digit code bound to a user and a
// purpose. A code is consumed by deleting its record, so a stored code is
// always an unconsumed one.
type OneTimeCode struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"user_id"`
	Code      string        `bson:"code"`
	Purpose   CodePurpose   `bson:"purpose"`
	ExpiresAt time.Time     `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
}
