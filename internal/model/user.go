package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role classifies a user's position within a company.
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// User represents a user account in the authentication system.
// PasswordHash is nil for invited users that have not completed
// password setup yet.
type User struct {
	ID              bson.ObjectID  `bson:"_id,omitempty"`
	Email           string         `bson:"email"`
	PasswordHash    *string        `bson:"password_hash"`
	Role            Role           `bson:"role"`
	CompanyID       *bson.ObjectID `bson:"company_id,omitempty"`
	Category        *string        `bson:"category,omitempty"`
	EmailValidated  bool           `bson:"email_validated"`
	LastValidatedAt *time.Time     `bson:"last_validated_at,omitempty"`
	CreatedAt       time.Time      `bson:"created_at"`
	UpdatedAt       time.Time      `bson:"updated_at"`
}
