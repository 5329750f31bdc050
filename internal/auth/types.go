package auth

import (
	"context"
	"time"
)

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetBcryptCost() int
}

// UserStore is the credential store: persisted user records keyed by a
// unique email. Create must reject duplicate emails with ErrEmailTaken.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// TokenBlacklist records tokens invalidated before their natural expiry.
// Add must be idempotent; inserting the same token twice is not an error.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}
