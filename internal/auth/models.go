package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fullname is the nested name document stored on each user
type Fullname struct {
	FirstName string `bson:"firstname" json:"firstname"`
	LastName  string `bson:"lastname" json:"lastname,omitempty"`
}

// User is the identity record persisted in the users collection.
// The password hash never serializes to JSON; every API response that
// carries a user is redacted by construction.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Fullname     Fullname           `bson:"fullname" json:"fullname"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at,omitempty"`
}

// BlacklistedToken is a revoked session token. ExpiresAt mirrors the
// token's own exp claim so the store can prune entries that could no
// longer verify anyway.
type BlacklistedToken struct {
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
