package mongodb

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-auth-server/internal/auth"
)

const blacklistCollection = "blacklisttokens"

var _ auth.TokenBlacklist = (*TokenBlacklist)(nil)

// TokenBlacklist persists revoked tokens in the blacklisttokens
// collection.
type TokenBlacklist struct {
	coll *mongo.Collection
}

// NewTokenBlacklist creates a store over the blacklisttokens collection.
func NewTokenBlacklist(db *mongo.Database) *TokenBlacklist {
	return &TokenBlacklist{coll: db.Collection(blacklistCollection)}
}

// EnsureIndexes creates a unique index on the token string and a TTL
// index on expires_at. Entries disappear once the token they revoke
// could no longer verify anyway, which bounds collection growth.
func (s *TokenBlacklist) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create blacklist indexes")
	}
	return nil
}

// Add records the token as revoked. Upsert on the token string makes
// repeated logouts with the same token a no-op.
func (s *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$setOnInsert": bson.M{
			"token":      token,
			"expires_at": expiresAt,
			"created_at": time.Now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert blacklisted token")
	}
	return nil
}

// Contains reports whether the exact token string has been revoked.
func (s *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	err := s.coll.FindOne(ctx, bson.M{"token": token}).Err()
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query blacklist")
	}
	return true, nil
}
